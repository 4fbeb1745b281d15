// Package sheet implements the Period Grouper & Batch Emitter
// (spec.md §4.10): flattening a FacultyDocument into rows, grouping
// those rows by period, and driving the spreadsheet transport's
// preparation and flush contracts.
package sheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/saludunivalle/cosecha/internal/model"
	"github.com/saludunivalle/cosecha/internal/rows"
)

const (
	tipoPregrado      = "Pregrado"
	tipoPostgrado     = "Postgrado"
	tipoTesis         = "Direccion de Tesis"
	tipoInvestigacion = "Investigacion"
	tipoExtension     = "Extension"
	tipoIntelectual   = "Intelectual/Artistica"
	tipoAdministrativa = "Administrativa"
	tipoComplementaria = "Complementaria"
	tipoComision      = "Comision"

	actividadDocencia = "Docencia"
)

// Flatten converts one FacultyDocument into one FlatActivityRow per
// individual activity across all nine categories (spec.md §4.10,
// §8's flatten-length invariant).
func Flatten(doc *model.FacultyDocument) []model.FlatActivityRow {
	base := personalBase(doc.Personal)
	base.Periodo = doc.PeriodLabel

	var out []model.FlatActivityRow

	for _, c := range doc.Courses.Undergrad {
		out = append(out, courseRow(base, tipoPregrado, c))
	}
	for _, c := range doc.Courses.Grad {
		out = append(out, courseRow(base, tipoPostgrado, c))
	}
	for _, t := range doc.Courses.Thesis {
		out = append(out, thesisRow(base, t))
	}
	for _, g := range doc.Research {
		out = append(out, genericRow(base, tipoInvestigacion, g))
	}
	for _, g := range doc.Extension {
		out = append(out, genericRow(base, tipoExtension, g))
	}
	for _, g := range doc.Intellectual {
		out = append(out, genericRow(base, tipoIntelectual, g))
	}
	for _, g := range doc.Administrative {
		out = append(out, genericRow(base, tipoAdministrativa, g))
	}
	for _, g := range doc.Complementary {
		out = append(out, genericRow(base, tipoComplementaria, g))
	}
	for _, g := range doc.Commission {
		out = append(out, genericRow(base, tipoComision, g))
	}

	return out
}

// personalBase pre-fills the columns that propagate to every row of a
// document (spec.md §4.10 "Personal fields propagate to every row").
func personalBase(p *model.PersonalInfo) model.FlatActivityRow {
	escuela := p.Get(model.KeyUnidadAcademica)
	return model.FlatActivityRow{
		Cedula:         p.Get(model.KeyCedula),
		NombreProfesor: joinNonEmpty(" ", p.Get(model.KeyNombre), p.Get(model.KeyApellido1), p.Get(model.KeyApellido2)),
		Escuela:        escuela,
		Departamento:   escuela,
		Categoria:      p.Get(model.KeyCategoria),
		Vinculacion:    p.Get(model.KeyVinculacion),
		Dedicacion:     p.Get(model.KeyDedicacion),
		Nivel:          p.Get(model.KeyNivelAlcanzado),
		Cargo:          p.Get(model.KeyCargo),
	}
}

func actividadFor(tipo string) string {
	switch tipo {
	case tipoPregrado, tipoPostgrado, tipoTesis:
		return actividadDocencia
	default:
		return tipo
	}
}

func formatHours(raw string) string {
	return strconv.FormatFloat(rows.ParseHours(raw), 'f', -1, 64)
}

func courseRow(base model.FlatActivityRow, tipo string, c model.CourseActivity) model.FlatActivityRow {
	r := base
	r.TipoActividad = tipo
	r.Actividad = actividadFor(tipo)
	r.NombreActividad = c.NombreAsignatura
	r.NumeroHoras = formatHours(c.HorasSemestre)
	r.DetalleActividad = joinNonEmpty(", ",
		labeled("Codigo", c.Codigo), labeled("Grupo", c.Grupo), labeled("Tipo", c.Tipo),
		labeled("Cred", c.Cred), labeled("Porc", c.Porc), labeled("Frec", c.Frec), labeled("Inten", c.Inten),
	)
	return r
}

func thesisRow(base model.FlatActivityRow, t model.ThesisActivity) model.FlatActivityRow {
	r := base
	r.TipoActividad = tipoTesis
	r.Actividad = actividadDocencia
	r.NombreActividad = t.TituloDeLaTesis
	r.NumeroHoras = formatHours(t.HorasSemestre)
	r.DetalleActividad = joinNonEmpty(", ",
		labeled("Codigo estudiante", t.CodigoEstudiante), labeled("Cod plan", t.CodPlan),
	)
	return r
}

func genericRow(base model.FlatActivityRow, tipo string, g model.GenericActivity) model.FlatActivityRow {
	r := base
	r.TipoActividad = tipo
	r.Actividad = actividadFor(tipo)
	r.NombreActividad = genericName(g)
	r.NumeroHoras = formatHours(g.HorasSemestre)
	r.DetalleActividad = genericDetail(g)
	return r
}

// genericName picks a representative activity-name value out of a
// generic activity's raw header->value pairs: the first header
// containing NOMBRE, TITULO, PROYECTO or DESCRIPCION, else the first
// non-empty value, with headers taken in alphabetical order (the raw
// map keeps no column order).
func genericName(g model.GenericActivity) string {
	keys := sortedKeys(g.Raw)
	for _, preferred := range []string{"NOMBRE", "TITULO", "PROYECTO", "DESCRIPCION"} {
		for _, k := range keys {
			if strings.Contains(strings.ToUpper(k), preferred) && g.Raw[k] != "" {
				return g.Raw[k]
			}
		}
	}
	for _, k := range keys {
		if g.Raw[k] != "" {
			return g.Raw[k]
		}
	}
	return ""
}

// genericDetail renders all raw header->value pairs (including the one
// genericName picked) as a compact "key: value" list, in alphabetical
// header order, skipping empty values.
func genericDetail(g model.GenericActivity) string {
	keys := sortedKeys(g.Raw)
	var parts []string
	for _, k := range keys {
		if v := strings.TrimSpace(g.Raw[k]); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labeled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
