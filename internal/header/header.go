// Package header implements the Header Resolver (spec.md §4.3): for
// each extracted table it locates the header row and returns both its
// original-casing cell vector and a normalized uppercase vector used by
// the classifier.
package header

import (
	"strings"
	"unicode"

	"github.com/saludunivalle/cosecha/internal/htmltable"
)

// markerTokens are the keywords that, found in one of a table's first
// three rows, identify it as the header row even without a background
// attribute.
var markerTokens = []string{
	"APROBADO", "NOMBRE", "PROYECTO", "HORAS", "CODIGO",
	"ANTEPROYECTO", "PROPUESTA", "INVESTIGACION",
}

// Resolved is the outcome of resolving one table's header row.
type Resolved struct {
	RowIndex int
	Original []string // original casing
	Upper    []string // uppercased + trimmed, for classification
}

// Resolve scans up to the first five rows of a table and returns the
// header row: the first row carrying a background attribute with at
// least one cell of 3+ non-space characters, or (within the first three
// rows) the first row containing a marker token, falling back to row 0.
func Resolve(t htmltable.Table) Resolved {
	limit := len(t.Rows)
	if limit > 5 {
		limit = 5
	}

	for i := 0; i < limit; i++ {
		row := t.Rows[i]
		if htmltable.BackgroundAttr(row.Elem) && hasSubstantialCell(row.Cells) {
			return resolved(i, row.Cells)
		}
	}

	markerLimit := limit
	if markerLimit > 3 {
		markerLimit = 3
	}
	for i := 0; i < markerLimit; i++ {
		row := t.Rows[i]
		if containsMarker(row.Cells) {
			return resolved(i, row.Cells)
		}
	}

	if len(t.Rows) == 0 {
		return Resolved{}
	}
	return resolved(0, t.Rows[0].Cells)
}

func hasSubstantialCell(cells []string) bool {
	for _, c := range cells {
		n := 0
		for _, r := range c {
			if !unicode.IsSpace(r) {
				n++
			}
		}
		if n >= 3 {
			return true
		}
	}
	return false
}

func containsMarker(cells []string) bool {
	for _, c := range cells {
		upper := strings.ToUpper(c)
		for _, marker := range markerTokens {
			if strings.Contains(upper, marker) {
				return true
			}
		}
	}
	return false
}

func resolved(idx int, cells []string) Resolved {
	upper := make([]string, len(cells))
	for i, c := range cells {
		upper[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return Resolved{RowIndex: idx, Original: cells, Upper: upper}
}

// HasAny reports whether any header cell contains the given uppercased
// substring. A small helper used throughout the classifier and row
// normalizers.
func (r Resolved) HasAny(substr string) bool {
	for _, c := range r.Upper {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}

// IndexOfAny returns the index of the first header cell containing any
// of the given uppercased substrings, or -1.
func (r Resolved) IndexOfAny(substrs ...string) int {
	for i, c := range r.Upper {
		for _, s := range substrs {
			if strings.Contains(c, s) {
				return i
			}
		}
	}
	return -1
}

// Joined concatenates the uppercased header cells with single spaces,
// letting callers test for compound phrases (e.g. "CODIGO ESTUDIANTE")
// regardless of whether the legacy markup happened to split them across
// adjacent cells.
func (r Resolved) Joined() string {
	return strings.Join(r.Upper, " ")
}
