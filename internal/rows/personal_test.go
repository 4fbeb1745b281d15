package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saludunivalle/cosecha/internal/model"
)

func TestPersonalInfoMapsCanonicalFields(t *testing.T) {
	h := resolvedFrom("CEDULA", "NOMBRE", "1 APELLIDO", "2 APELLIDO", "UNIDAD ACADEMICA")
	p := PersonalInfo(h, []string{"123456789", "Maria", "Gomez", "Ruiz", "Escuela de Ingenieria"})

	assert.Equal(t, "123456789", p.Get(model.KeyCedula))
	assert.Equal(t, "Maria", p.Get(model.KeyNombre))
	assert.Equal(t, "Gomez", p.Get(model.KeyApellido1))
	assert.Equal(t, "Ruiz", p.Get(model.KeyApellido2))
	assert.Equal(t, "Escuela de Ingenieria", p.Get(model.KeyUnidadAcademica))
}

func TestPersonalInfoHeaderLeakGuardRejectsEchoedLabel(t *testing.T) {
	// The value row echoes the header text itself — a common artifact of
	// a misaligned or doubled header row — and must be rejected.
	h := resolvedFrom("CEDULA", "NOMBRE")
	p := PersonalInfo(h, []string{"CEDULA", "NOMBRE"})

	assert.False(t, p.Has(model.KeyCedula))
	assert.False(t, p.Has(model.KeyNombre))
}

func TestPersonalInfoHeaderLeakGuardRejectsOverlongValue(t *testing.T) {
	h := resolvedFrom("NOMBRE")
	longValue := ""
	for i := 0; i < 60; i++ {
		longValue += "x"
	}
	p := PersonalInfo(h, []string{longValue})
	assert.False(t, p.Has(model.KeyNombre))
}

func TestAdditionalInfoHorizontalLayout(t *testing.T) {
	h := resolvedFrom("VINCULACION", "CATEGORIA", "DEDICACION", "NIVEL ALCANZADO")
	got := AdditionalInfo(h, [][]string{{"Planta", "Titular", "Tiempo Completo", "Doctorado"}})

	assert.Equal(t, "Planta", got[model.KeyVinculacion])
	assert.Equal(t, "Titular", got[model.KeyCategoria])
	assert.Equal(t, "Tiempo Completo", got[model.KeyDedicacion])
	assert.Equal(t, "Doctorado", got[model.KeyNivelAlcanzado])
}

func TestAdditionalInfoVerticalLayout(t *testing.T) {
	h := resolvedFrom("CAMPO", "VALOR")
	got := AdditionalInfo(h, [][]string{
		{"Vinculacion", "Planta"},
		{"Categoria", "Titular"},
	})

	assert.Equal(t, "Planta", got[model.KeyVinculacion])
	assert.Equal(t, "Titular", got[model.KeyCategoria])
}

func TestSweepPersonalFieldsBackfillsFromRaw(t *testing.T) {
	p := model.NewPersonalInfo()
	p.Raw["VINCULACION"] = "Catedra"

	SweepPersonalFields(p)

	assert.Equal(t, "Catedra", p.Get(model.KeyVinculacion))
}

func TestSweepPersonalFieldsDoesNotOverwriteExisting(t *testing.T) {
	p := model.NewPersonalInfo()
	p.Fields[model.KeyVinculacion] = "Planta"
	p.Raw["VINCULACION"] = "Catedra"

	SweepPersonalFields(p)

	assert.Equal(t, "Planta", p.Get(model.KeyVinculacion))
}
