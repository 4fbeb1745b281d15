// Package htmltable implements the Table Extractor (spec.md §4.2): it
// walks a full HTML document, yields its <table> blocks, and from each
// block yields rows whose cells have been expanded for colspan so that
// downstream header alignment can be done purely by index.
//
// The portal's HTML is non-conforming (unclosed tags, legacy entities),
// which is exactly the malformed-input case spec.md §9 calls out; a DOM
// parser that tolerates it — goquery, backed by golang.org/x/net/html's
// lenient tokenizer — is used here in place of the literal regex
// contract, which §4.2 explicitly permits.
package htmltable

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/saludunivalle/cosecha/internal/normalize"
)

// Row is one extracted <tr>: cells in document order, already replicated
// for colspan and normalized (entity-decoded, mojibake-repaired,
// whitespace-collapsed).
type Row struct {
	Cells []string
	Elem  *goquery.Selection
}

// Table is one extracted <table> with its rows.
type Table struct {
	Elem *goquery.Selection
	Rows []Row
}

// Extract parses an HTML document already decoded to UTF-8 (see
// internal/normalize) and returns every <table> block it contains, in
// document order.
func Extract(htmlDoc string) ([]Table, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, err
	}

	var tables []Table
	dom.Find("table").Each(func(_ int, tableSel *goquery.Selection) {
		tables = append(tables, Table{
			Elem: tableSel,
			Rows: extractRows(tableSel),
		})
	})
	return tables, nil
}

// extractRows walks the direct <tr> descendants of a table (not
// recursing into nested tables' own rows — HasNestedTable lets the
// classifier decide whether to recurse explicitly) and expands each
// cell's colspan by replicating its text N times into the row's cell
// vector.
func extractRows(table *goquery.Selection) []Row {
	var rows []Row

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if ownerTable(tr) != table.Get(0) {
			// This <tr> belongs to a nested table, not this one.
			return
		}

		var cells []string
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			span := colspan(cell)
			text := CellText(cell)
			for i := 0; i < span; i++ {
				cells = append(cells, text)
			}
		})

		rows = append(rows, Row{Cells: cells, Elem: tr})
	})

	return rows
}

// ownerTable walks up from a <tr> to find its nearest ancestor <table>,
// so rows belonging to a nested table are not double-counted against
// the outer table.
func ownerTable(tr *goquery.Selection) interface{} {
	anc := tr.ParentsFiltered("table")
	if anc.Length() == 0 {
		return nil
	}
	return anc.First().Get(0)
}

// colspan reads a cell's colspan attribute, defaulting to 1 for a
// missing or malformed value.
func colspan(cell *goquery.Selection) int {
	v, ok := cell.Attr("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// CellText extracts a cell's normalized text: inner tags stripped by
// goquery's own text extraction, then entity-decoded, mojibake-repaired
// and whitespace-collapsed.
func CellText(cell *goquery.Selection) string {
	return normalize.NormalizeField(cell.Text())
}

// HasNestedTable reports whether a cell contains an entire nested
// <table>, letting the classifier recurse into it explicitly.
func HasNestedTable(cell *goquery.Selection) bool {
	return cell.Find("table").Length() > 0
}

// PrecedingSectionText returns the normalized text of the nearest
// non-empty sibling element preceding the table — the portal separates
// undergraduate and graduate course blocks with a plain subtitle line
// (e.g. a <p> or <b>) directly above each table, rather than a heading
// tag. Scans at most 5 siblings back, and stops with "" at the first
// sibling that is or contains a <table>, so another table's content is
// never picked up as a subtitle.
func PrecedingSectionText(t Table) string {
	if t.Elem == nil {
		return ""
	}
	sel := t.Elem.Prev()
	for i := 0; i < 5 && sel.Length() > 0; i++ {
		if sel.Is("table") || sel.Find("table").Length() > 0 {
			return ""
		}
		if text := normalize.NormalizeField(sel.Text()); text != "" {
			return text
		}
		sel = sel.Prev()
	}
	return ""
}

// BackgroundAttr reports whether a row carries a bgcolor or background
// attribute on itself or any direct cell child, used by the Header
// Resolver (spec.md §4.3).
func BackgroundAttr(row *goquery.Selection) bool {
	if _, ok := row.Attr("bgcolor"); ok {
		return true
	}
	if _, ok := row.Attr("background"); ok {
		return true
	}
	has := false
	row.ChildrenFiltered("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if _, ok := cell.Attr("bgcolor"); ok {
			has = true
			return false
		}
		if _, ok := cell.Attr("background"); ok {
			has = true
			return false
		}
		return true
	})
	return has
}
