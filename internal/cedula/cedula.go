// Package cedula implements the cedula list input surface (spec.md §6):
// cleaning, validation and deduplication of the national-ID column read
// from the source sheet.
package cedula

import "strings"

var headerTokens = map[string]bool{
	"CEDULA": true, "DOCUMENTO": true, "ID": true, "NO. DOCUMENTO": true,
}

// Clean strips spaces, dots and dashes from raw, keeping it only if the
// result is all-digits with length in [7,10]. A rejected value yields
// "" and false. Header-like title rows are dropped by CleanList, not
// here.
func Clean(raw string) (string, bool) {
	stripped := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(raw)
	if stripped == "" {
		return "", false
	}
	if len(stripped) < 7 || len(stripped) > 10 {
		return "", false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return stripped, true
}

// isHeaderLike reports whether a raw column value names one of the
// known header tokens, case-insensitively, ignoring surrounding space.
func isHeaderLike(raw string) bool {
	return headerTokens[strings.ToUpper(strings.TrimSpace(raw))]
}

// CleanList cleans an entire column: the first row is discarded if it
// looks like a header token, every remaining value is cleaned and
// validated, and duplicates are dropped while preserving first
// occurrence order.
func CleanList(column []string) []string {
	if len(column) == 0 {
		return nil
	}

	start := 0
	if isHeaderLike(column[0]) {
		start = 1
	}

	seen := map[string]bool{}
	var out []string
	for _, raw := range column[start:] {
		v, ok := Clean(raw)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
