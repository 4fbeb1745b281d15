// Package normalize implements the Text Normalizer (spec.md §4.1): a
// pure-function pipeline that decodes a Latin-1 byte buffer, repairs
// mojibake introduced by UTF-8-read-as-Latin-1 misdecoding, expands a
// fixed HTML entity table and collapses whitespace.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Latin1Decode performs the 1:1 byte-to-rune decode of a buffer assumed
// to be single-byte Latin-1 (ISO-8859-1). Every byte 0x00-0xFF maps to
// the Unicode code point of the same value, so the result is always
// valid UTF-8.
func Latin1Decode(raw []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// charmap.ISO8859_1 has no undefined code points, so this path
		// should be unreachable; fall back to the manual mapping to stay
		// total.
		runes := make([]rune, len(raw))
		for i, b := range raw {
			runes[i] = rune(b)
		}
		return string(runes)
	}
	return string(out)
}

// entityTable is the closed set of entities the normalizer recognizes.
// Unknown "&...;" sequences pass through verbatim.
var entityTable = map[string]string{
	"&aacute;": "á", "&Aacute;": "Á",
	"&eacute;": "é", "&Eacute;": "É",
	"&iacute;": "í", "&Iacute;": "Í",
	"&oacute;": "ó", "&Oacute;": "Ó",
	"&uacute;": "ú", "&Uacute;": "Ú",
	"&ntilde;": "ñ", "&Ntilde;": "Ñ",
	"&uuml;": "ü", "&Uuml;": "Ü",
	"&ordm;": "º", "&ordf;": "ª", "&deg;": "°",
	"&amp;": "&", "&quot;": "\"", "&lt;": "<", "&gt;": ">",
	"&nbsp;": " ",
}

var entityRe = regexp.MustCompile(`&[a-zA-Z]+;`)

// DecodeEntities expands every entity in entityTable, leaving unknown
// "&...;" sequences untouched.
func DecodeEntities(s string) string {
	return entityRe.ReplaceAllStringFunc(s, func(m string) string {
		if r, ok := entityTable[m]; ok {
			return r
		}
		return m
	})
}

// mojibakeTable is the ordered literal substring replacement table,
// most-specific sequence first so that a bare "Ã" substitution never
// consumes a byte that belongs to a longer, still-unprocessed sequence.
var mojibakeTable = []struct{ from, to string }{
	{"ÃA", "Í"},
	{"Ã'", "Ñ"},
	{"Ã±", "ñ"},
	{"Ã¡", "á"},
	{"Ã©", "é"},
	{"Ã­", "í"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
	{"Â°", "°"},
	{"Â¿", "¿"},
	{"â€˜", "'"},
	{"â€™", "'"},
	{"â€œ", "\""},
	{"â€", "\""},
}

// controlArtifactTable maps a rune that follows a literal "Ã" to the
// character it represents in the cp1252-as-Latin-1 mojibake family. Two
// sub-families land here: a control-range byte (0x80-0x9F) decoded as
// its own code point by a literal Latin-1 pass, and the printable
// cp1252 glyph (0x2018-0x2030) that same byte decodes to when the
// misreading pass used Windows-1252 instead of plain Latin-1 -- the
// family "RECIÃ‰N" (Ã + U+2030) belongs to, since
// É's second UTF-8 byte (0x89) is cp1252's per-mille sign.
var controlArtifactTable = map[rune]string{
	0x81: "Á", 0x89: "É", 0x93: "Ó",
	0x85: "…", 0x92: "'", 0x94: "\"", 0x96: "-", 0x97: "-",
	0x2030: "É",
}

var controlArtifactRe = regexp.MustCompile("Ã[-‘-‰]")

// RepairControlRangeArtifacts applies the regex pass over "Ã" followed
// by a control-range or cp1252-glyph artifact rune, through
// controlArtifactTable. Unmapped runes in the scanned ranges are left
// as-is.
func RepairControlRangeArtifacts(s string) string {
	return controlArtifactRe.ReplaceAllStringFunc(s, func(m string) string {
		ctrl := []rune(m)[1]
		if r, ok := controlArtifactTable[ctrl]; ok {
			return r
		}
		return m
	})
}

// RepairMojibake applies the literal substring table in order, then the
// control-range regex pass. It is idempotent: repairing already-repaired
// text is a no-op, since the table's output characters never appear as
// input to the table's own "from" side.
func RepairMojibake(s string) string {
	for _, rule := range mojibakeTable {
		s = strings.ReplaceAll(s, rule.from, rule.to)
	}
	return RepairControlRangeArtifacts(s)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace collapses every run of whitespace (including
// newlines) to a single space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Pipeline runs the full stage order from a raw Latin-1 byte buffer:
// decode, entity-expand, mojibake-repair. Whitespace collapse is left
// to callers operating on extracted field/cell values (NormalizeField),
// since collapsing it over the whole document would be harmless for the
// regex/DOM extractors used downstream but is not needed before them.
func Pipeline(raw []byte) string {
	s := Latin1Decode(raw)
	s = DecodeEntities(s)
	s = RepairMojibake(s)
	return s
}

// NormalizeField applies entity decode, mojibake repair and whitespace
// collapse to a single extracted cell or field value.
func NormalizeField(s string) string {
	s = DecodeEntities(s)
	s = RepairMojibake(s)
	return CollapseWhitespace(s)
}
