package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatin1DecodeIsTotal(t *testing.T) {
	raw := []byte{0x00, 0x41, 0xE9, 0xFF}
	got := Latin1Decode(raw)
	want := string([]rune{0x00, 'A', 0xE9, 0xFF})
	assert.Equal(t, want, got)
}

func TestDecodeEntitiesKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "cafe&nino", DecodeEntities("cafe&amp;nino"))
	assert.Equal(t, "&foobar;", DecodeEntities("&foobar;"))
}

func TestRepairMojibakeFixesCommonSequences(t *testing.T) {
	mojibakeO := string([]rune{0xC3, 0xB3}) // "Ã" + "³", the mis-decoded UTF-8 bytes of "ó"
	mojibakeN := string([]rune{0xC3, 0xB1}) // "Ã" + "±", the mis-decoded UTF-8 bytes of "ñ"

	cases := map[string]string{
		"Informaci" + mojibakeO + "n": "Informaci" + string(rune(0xF3)) + "n",
		"a" + mojibakeN + "o":         "a" + string(rune(0xF1)) + "o",
	}
	for input, want := range cases {
		assert.Equal(t, want, RepairMojibake(input), "input=%q", input)
	}
}

func TestRepairMojibakeIsIdempotent(t *testing.T) {
	mojibakeO := string([]rune{0xC3, 0xB3})
	input := "Informaci" + mojibakeO + "n"
	once := RepairMojibake(input)
	twice := RepairMojibake(once)
	assert.Equal(t, once, twice)
}

func TestRepairMojibakeFixesControlRangeArtifacts(t *testing.T) {
	// "RECIÃ‰N": Ã (U+00C3) followed by the cp1252 per-mille glyph
	// (U+2030) the second UTF-8 byte of É decodes to when the
	// misreading pass used Windows-1252 instead of plain Latin-1.
	mojibakeE := string([]rune{'R', 'E', 'C', 'I', 0xC3, 0x2030, 'N'})
	assert.Equal(t, "RECI"+string(rune(0xC9))+"N", RepairMojibake(mojibakeE))
}

func TestRepairMojibakeFixesRawControlByteArtifacts(t *testing.T) {
	mojibakeA := string([]rune{0xC3, 0x81}) // "Ã" + raw control byte 0x81
	assert.Equal(t, string(rune(0xC1)), RepairMojibake(mojibakeA))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\n\tb   c  "))
	assert.Equal(t, "", CollapseWhitespace("   \n\t  "))
}

func TestNormalizeFieldPipeline(t *testing.T) {
	mojibakeO := string([]rune{0xC3, 0xB3})
	got := NormalizeField("  Direcci" + mojibakeO + "n  de\n\tTesis  ")
	want := "Direcci" + string(rune(0xF3)) + "n de Tesis"
	assert.Equal(t, want, got)
}

func TestPipelineDecodesLatin1Bytes(t *testing.T) {
	raw := []byte{'D', 'i', 'r', 'e', 'c', 'c', 'i', 0xF3, 'n'}
	got := Pipeline(raw)
	want := "Direcci" + string(rune(0xF3)) + "n"
	assert.Equal(t, want, got)
}
