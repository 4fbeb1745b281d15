// Package rows implements the Row Normalizers (spec.md §4.5): per table
// kind, a flexible header-to-canonical-field mapper tolerant of synonym
// headers, missing columns and column reordering.
package rows

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/saludunivalle/cosecha/internal/header"
	"github.com/saludunivalle/cosecha/internal/model"
)

// findCol returns the index of the first header cell whose uppercased
// text contains every string in mustAll and none in mustNot, or -1.
func findCol(h header.Resolved, mustAll []string, mustNot []string) int {
	for i, cell := range h.Upper {
		ok := true
		for _, m := range mustAll {
			if !strings.Contains(cell, m) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for _, m := range mustNot {
			if strings.Contains(cell, m) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Course maps a course table's header+row into a CourseActivity. ok is
// false when neither CODIGO nor NOMBRE-DE-ASIGNATURA is non-empty
// (spec.md §3 invariant), in which case the row is discarded.
func Course(h header.Resolved, row []string) (model.CourseActivity, bool) {
	codigoIdx := findCol(h, []string{"CODIGO"}, []string{"ESTUDIANTE"})
	grupoIdx := findCol(h, []string{"GRUPO"}, nil)
	tipoIdx := findCol(h, []string{"TIPO"}, nil)
	nombreIdx := findCol(h, []string{"NOMBRE", "ASIGNATURA"}, nil)
	if nombreIdx < 0 {
		nombreIdx = findCol(h, []string{"ASIGNATURA"}, nil)
	}
	credIdx := findCol(h, []string{"CRED"}, nil)
	porcIdx := findCol(h, []string{"PORC"}, nil)
	frecIdx := findCol(h, []string{"FREC"}, nil)
	intenIdx := findCol(h, []string{"INTEN"}, nil)
	horasIdx := findCol(h, []string{"HORAS", "SEMESTRE"}, nil)
	if horasIdx < 0 {
		horasIdx = findCol(h, []string{"HORAS"}, []string{"TOTAL"})
	}

	c := model.CourseActivity{
		Codigo:           cellAt(row, codigoIdx),
		Grupo:            cellAt(row, grupoIdx),
		Tipo:             cellAt(row, tipoIdx),
		NombreAsignatura: cellAt(row, nombreIdx),
		Cred:             cellAt(row, credIdx),
		Porc:             cellAt(row, porcIdx),
		Frec:             cellAt(row, frecIdx),
		Inten:            cellAt(row, intenIdx),
		HorasSemestre:    cellAt(row, horasIdx),
	}

	if c.Codigo == "" && c.NombreAsignatura == "" {
		return model.CourseActivity{}, false
	}
	return c, true
}

// Thesis maps a thesis table's header+row into a ThesisActivity. If
// borderlineAnteproyecto is set (the header carries the
// anteproyecto/propuesta-de-investigacion markers, a borderline
// research/thesis classification, per spec.md §4.5) and the title
// column is empty, the anteproyecto column's value mirrors into
// TituloDeLaTesis.
func Thesis(h header.Resolved, row []string, borderlineAnteproyecto bool) (model.ThesisActivity, bool) {
	codigoEstIdx := findCol(h, []string{"CODIGO", "ESTUDIANTE"}, nil)
	codPlanIdx := findCol(h, []string{"COD", "PLAN"}, nil)
	if codPlanIdx < 0 {
		codPlanIdx = findCol(h, []string{"PLAN"}, nil)
	}
	tituloIdx := findCol(h, []string{"TITULO", "TESIS"}, nil)
	if tituloIdx < 0 {
		tituloIdx = findCol(h, []string{"TITULO"}, nil)
	}
	horasIdx := findCol(h, []string{"HORAS"}, nil)

	t := model.ThesisActivity{
		CodigoEstudiante: cellAt(row, codigoEstIdx),
		CodPlan:          cellAt(row, codPlanIdx),
		TituloDeLaTesis:  cellAt(row, tituloIdx),
		HorasSemestre:    cellAt(row, horasIdx),
	}

	if t.TituloDeLaTesis == "" && borderlineAnteproyecto {
		anteIdx := findCol(h, []string{"ANTEPROYECTO"}, nil)
		if anteIdx < 0 {
			anteIdx = findCol(h, []string{"PROPUESTA", "INVESTIGACION"}, nil)
		}
		if v := cellAt(row, anteIdx); v != "" {
			t.TituloDeLaTesis = v
		}
	}

	if t.CodigoEstudiante == "" && t.TituloDeLaTesis == "" {
		return model.ThesisActivity{}, false
	}
	return t, true
}

// Generic maps any of the free-form activity tables (Research,
// Extension, Intellectual, Administrative, Complementary, Commission)
// into a GenericActivity: every header->value pair is preserved raw,
// and HorasSemestre is canonicalized the same way as Course/Thesis.
func Generic(h header.Resolved, row []string) model.GenericActivity {
	raw := map[string]string{}
	for i, original := range h.Original {
		key := strings.TrimSpace(original)
		if key == "" {
			continue
		}
		raw[key] = cellAt(row, i)
	}

	horasIdx := findCol(h, []string{"HORAS"}, nil)
	return model.GenericActivity{
		Raw:           raw,
		HorasSemestre: cellAt(row, horasIdx),
	}
}

var dashLike = map[string]bool{"": true, "-": true, "–": true, "—": true}

var leadingNumberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseHours interprets a HorasSemestre raw string as a float, per
// spec.md §8: empty/dash/whitespace-only tokens are 0; "3" is 3.0;
// "3.5" is 3.5; "48 horas" falls back to the leading digit sequence,
// 48.0.
func ParseHours(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if dashLike[trimmed] {
		return 0
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	m := leadingNumberRe.FindString(trimmed)
	if m == "" {
		return 0
	}
	m = strings.Replace(m, ",", ".", 1)
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}
