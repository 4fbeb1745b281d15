package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludunivalle/cosecha/internal/htmltable"
)

func extract(t *testing.T, html string) htmltable.Table {
	t.Helper()
	tables, err := htmltable.Extract(html)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	return tables[0]
}

func TestResolvePrefersBackgroundRowOverMarkerRow(t *testing.T) {
	table := extract(t, `
<table>
<tr><td>NOMBRE</td><td>junk</td></tr>
<tr bgcolor="#ccc"><td>CEDULA</td><td>NOMBRE</td></tr>
<tr><td>123</td><td>Maria</td></tr>
</table>
`)

	r := Resolve(table)
	assert.Equal(t, 1, r.RowIndex)
	assert.Equal(t, []string{"CEDULA", "NOMBRE"}, r.Upper)
}

func TestResolveFallsBackToMarkerTokenWithoutBackground(t *testing.T) {
	table := extract(t, `
<table>
<tr><td>Some caption</td></tr>
<tr><td>codigo</td><td>nombre asignatura</td><td>horas</td></tr>
<tr><td>800123</td><td>Calculo I</td><td>48</td></tr>
</table>
`)

	r := Resolve(table)
	assert.Equal(t, 1, r.RowIndex)
	assert.Equal(t, "CODIGO", r.Upper[0])
}

func TestResolveFallsBackToRowZeroWhenNothingElseMatches(t *testing.T) {
	table := extract(t, `
<table>
<tr><td>alpha</td><td>beta</td></tr>
<tr><td>1</td><td>2</td></tr>
</table>
`)

	r := Resolve(table)
	assert.Equal(t, 0, r.RowIndex)
	assert.Equal(t, []string{"ALPHA", "BETA"}, r.Upper)
}

func TestResolveIgnoresBackgroundRowWithNoSubstantialCell(t *testing.T) {
	table := extract(t, `
<table>
<tr bgcolor="#ccc"><td>-</td><td></td></tr>
<tr><td>codigo</td><td>nombre</td></tr>
<tr><td>1</td><td>2</td></tr>
</table>
`)

	r := Resolve(table)
	assert.Equal(t, 1, r.RowIndex, "background row with no cell of 3+ chars is skipped")
}

func TestResolveOnEmptyTableReturnsZeroValue(t *testing.T) {
	r := Resolve(htmltable.Table{})
	assert.Equal(t, Resolved{}, r)
}

func TestHasAnyAndIndexOfAnyAndJoined(t *testing.T) {
	table := extract(t, `<table><tr bgcolor="#ccc"><td>CODIGO</td><td>NOMBRE ASIGNATURA</td></tr></table>`)
	r := Resolve(table)

	assert.True(t, r.HasAny("ASIGNATURA"))
	assert.False(t, r.HasAny("HORAS"))
	assert.Equal(t, 1, r.IndexOfAny("ASIGNATURA", "HORAS"))
	assert.Equal(t, -1, r.IndexOfAny("MISSING"))
	assert.Equal(t, "CODIGO NOMBRE ASIGNATURA", r.Joined())
}
