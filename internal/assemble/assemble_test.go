package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocHTML = `
<html><body>

<table>
<tr bgcolor="#ccc"><td>CEDULA</td><td>NOMBRE</td><td>1 APELLIDO</td><td>UNIDAD ACADEMICA</td></tr>
<tr><td>123456789</td><td>Maria</td><td>Gomez</td><td>Escuela de Ingenieria</td></tr>
</table>

<table>
<tr bgcolor="#ccc"><td>VINCULACION</td><td>CATEGORIA</td><td>DEDICACION</td><td>NIVEL ALCANZADO</td></tr>
<tr><td>Planta</td><td>Titular</td><td>Tiempo Completo</td><td>Doctorado</td></tr>
</table>

<table>
<tr bgcolor="#ccc"><td>CODIGO</td><td>GRUPO</td><td>TIPO</td><td>NOMBRE ASIGNATURA</td><td>HORAS SEMESTRE</td></tr>
<tr><td>300100</td><td>1</td><td>T</td><td>Calculo I</td><td>48</td></tr>
<tr><td>900456</td><td>1</td><td>T</td><td>Maestria en Topicos</td><td>32</td></tr>
</table>

</body></html>
`

func TestDocumentAssemblesPersonalAndCourses(t *testing.T) {
	doc, err := Document(49, "2026-1", fullDocHTML, nil)
	require.NoError(t, err)

	assert.Equal(t, "123456789", doc.Personal.Get("CEDULA"))
	assert.Equal(t, "Planta", doc.Personal.Get("VINCULACION"))
	assert.Len(t, doc.Courses.Undergrad, 1)
	assert.Len(t, doc.Courses.Grad, 1)
	assert.Equal(t, "Calculo I", doc.Courses.Undergrad[0].NombreAsignatura)
	assert.Equal(t, "Maestria en Topicos", doc.Courses.Grad[0].NombreAsignatura)
}

const sectionContextHTML = `
<html><body>

<table>
<tr bgcolor="#ccc"><td>CEDULA</td><td>NOMBRE</td><td>1 APELLIDO</td></tr>
<tr><td>123456789</td><td>Maria</td><td>Gomez</td></tr>
</table>

<p><b>Cursos de Posgrado</b></p>
<table>
<tr bgcolor="#ccc"><td>CODIGO</td><td>GRUPO</td><td>TIPO</td><td>NOMBRE ASIGNATURA</td><td>HORAS SEMESTRE</td></tr>
<tr><td>100100</td><td>1</td><td>T</td><td>Cualquier Curso</td><td>48</td></tr>
</table>

</body></html>
`

func TestDocumentUsesPrecedingSubtitleAsSectionContext(t *testing.T) {
	doc, err := Document(49, "2026-1", sectionContextHTML, nil)
	require.NoError(t, err)

	// "100100" and "Cualquier Curso" carry no graduate keyword and
	// would fall to the undergraduate numeric-prefix rule; the
	// "Cursos de Posgrado" subtitle above the table overrides that.
	require.Len(t, doc.Courses.Grad, 1)
	assert.Empty(t, doc.Courses.Undergrad)
	assert.Equal(t, "Cualquier Curso", doc.Courses.Grad[0].NombreAsignatura)
}

func TestDocumentErrorsOnZeroTables(t *testing.T) {
	_, err := Document(49, "2026-1", "<html><body>no tables here</body></html>", nil)
	assert.Error(t, err)
}
