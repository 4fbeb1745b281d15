package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleStore adapts the Sheets v4 API to Store. It holds no cedula or
// period domain knowledge — the Grouper owns that, this is transport
// only.
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewGoogleStore builds a GoogleStore authenticated with credentials
// loaded from credentialsFile (a service-account key, per spec.md §6).
func NewGoogleStore(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleStore, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("sheet: building sheets service: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleStore) ListSheets(ctx context.Context) ([]string, error) {
	resp, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheet: listing worksheets: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

func (g *GoogleStore) EnsureSheet(ctx context.Context, title string, header []string) error {
	titles, err := g.ListSheets(ctx)
	if err != nil {
		return err
	}

	if !containsTitle(titles, title) {
		if err := g.addSheet(ctx, title); err != nil {
			return err
		}
		return g.writeHeader(ctx, title, header)
	}

	existing, err := g.readRow(ctx, title, 1)
	if err != nil {
		return err
	}
	if headerMatches(existing, header) {
		return nil
	}

	if err := g.writeHeader(ctx, title, header); err != nil {
		return err
	}
	return g.clearFromRow(ctx, title, 2)
}

func (g *GoogleStore) AppendRows(ctx context.Context, title string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		vals := make([]interface{}, len(r))
		for j, c := range r {
			vals[j] = c
		}
		values[i] = vals
	}

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, quoteSheet(title)+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet: appending %d rows to %q: %w", len(rows), title, err)
	}
	return nil
}

func (g *GoogleStore) ReadColumn(ctx context.Context, title, column string) ([]string, error) {
	if n, err := strconv.Atoi(column); err == nil && n > 0 {
		letters := ""
		for ; n > 0; n = (n - 1) / 26 {
			letters = string(rune('A'+(n-1)%26)) + letters
		}
		column = letters
	}
	rng := fmt.Sprintf("%s!%s:%s", quoteSheet(title), column, column)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheet: reading column %s of %q: %w", column, title, err)
	}
	out := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, fmt.Sprintf("%v", row[0]))
	}
	return out, nil
}

func (g *GoogleStore) addSheet(ctx context.Context, title string) error {
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet: creating worksheet %q: %w", title, err)
	}
	return nil
}

func (g *GoogleStore) writeHeader(ctx context.Context, title string, header []string) error {
	vals := make([]interface{}, len(header))
	for i, h := range header {
		vals[i] = h
	}
	rng := fmt.Sprintf("%s!A1", quoteSheet(title))
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{vals},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet: writing header of %q: %w", title, err)
	}
	return nil
}

func (g *GoogleStore) readRow(ctx context.Context, title string, row int) ([]string, error) {
	rng := fmt.Sprintf("%s!A%d:%d", quoteSheet(title), row, row)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheet: reading row %d of %q: %w", row, title, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	out := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out, nil
}

func (g *GoogleStore) clearFromRow(ctx context.Context, title string, from int) error {
	rng := fmt.Sprintf("%s!A%d:ZZ", quoteSheet(title), from)
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet: clearing %q from row %d: %w", title, from, err)
	}
	return nil
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}

// headerMatches compares two header rows case- and whitespace-
// insensitively (spec.md §6).
func headerMatches(existing, want []string) bool {
	if len(existing) != len(want) {
		return false
	}
	for i := range want {
		if normalizeHeaderCell(existing[i]) != normalizeHeaderCell(want[i]) {
			return false
		}
	}
	return true
}

func normalizeHeaderCell(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
