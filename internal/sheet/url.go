package sheet

import (
	"fmt"
	"regexp"
)

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ExtractSpreadsheetID pulls the spreadsheet id out of a full Google
// Sheets URL, e.g. "https://docs.google.com/spreadsheets/d/<id>/edit".
func ExtractSpreadsheetID(sheetURL string) (string, error) {
	m := spreadsheetIDRe.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("sheet: could not find spreadsheet id in url %q", sheetURL)
	}
	return m[1], nil
}
