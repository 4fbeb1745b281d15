// Package assemble implements the Document Assembler (spec.md §4.7 in
// the System Overview numbering, §3 FacultyDocument): it drives the
// Table Extractor, Header Resolver, Table Classifier and Row
// Normalizers over one (cedula, period) document and merges their
// output into a single immutable FacultyDocument.
package assemble

import (
	"strings"

	"github.com/saludunivalle/cosecha/internal/classify"
	"github.com/saludunivalle/cosecha/internal/header"
	"github.com/saludunivalle/cosecha/internal/herrors"
	"github.com/saludunivalle/cosecha/internal/htmltable"
	"github.com/saludunivalle/cosecha/internal/model"
	"github.com/saludunivalle/cosecha/internal/rows"
)

// Logger is the minimal logging surface the assembler needs; satisfied
// by *zap.SugaredLogger.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Document builds a FacultyDocument from one fully-normalized HTML
// document (already decoded to UTF-8 by internal/normalize). log may be
// nil, in which case dropped/unmatched tables are silently discarded.
func Document(periodID int, periodLabel string, htmlDoc string, log Logger) (*model.FacultyDocument, error) {
	if log == nil {
		log = nopLogger{}
	}

	tables, err := htmltable.Extract(htmlDoc)
	if err != nil {
		return nil, &herrors.ParseError{Period: periodLabel, Reason: "failed to extract tables: " + err.Error()}
	}
	if len(tables) == 0 {
		return nil, &herrors.ParseError{Period: periodLabel, Reason: "document contains zero tables"}
	}

	doc := &model.FacultyDocument{
		PeriodID:    periodID,
		PeriodLabel: periodLabel,
		Personal:    model.NewPersonalInfo(),
	}

	for _, t := range tables {
		h := header.Resolve(t)
		if len(h.Upper) == 0 {
			continue
		}
		kind := classify.Table(h)
		dataRows := t.Rows[h.RowIndex+1:]

		switch kind {
		case classify.PersonalInfo:
			var valueRow []string
			if len(dataRows) > 0 {
				valueRow = dataRows[0].Cells
			}
			p := rows.PersonalInfo(h, valueRow)
			mergePersonal(doc.Personal, p)

		case classify.AdditionalInfo:
			cellRows := toCellRows(dataRows)
			merged := rows.AdditionalInfo(h, cellRows)
			for k, v := range merged {
				if !doc.Personal.Has(k) {
					doc.Personal.Fields[k] = v
				}
			}

		case classify.Courses:
			ctx := classify.SectionContextFromText(htmltable.PrecedingSectionText(t))
			for _, r := range dataRows {
				c, ok := rows.Course(h, r.Cells)
				if !ok {
					continue
				}
				pol := classify.CoursePolarity(ctx, c.Codigo, c.NombreAsignatura, c.Tipo, c.Grupo)
				if pol == classify.Graduate {
					doc.Courses.Grad = append(doc.Courses.Grad, c)
				} else {
					doc.Courses.Undergrad = append(doc.Courses.Undergrad, c)
				}
			}

		case classify.ThesisDirection:
			borderline := h.HasAny("ANTEPROYECTO") || (h.HasAny("PROPUESTA") && h.HasAny("INVESTIGACION"))
			for _, r := range dataRows {
				th, ok := rows.Thesis(h, r.Cells, borderline)
				if ok {
					doc.Courses.Thesis = append(doc.Courses.Thesis, th)
				}
			}

		case classify.Research:
			doc.Research = append(doc.Research, genericRows(h, dataRows)...)
		case classify.Extension:
			doc.Extension = append(doc.Extension, genericRows(h, dataRows)...)
		case classify.Intellectual:
			doc.Intellectual = append(doc.Intellectual, genericRows(h, dataRows)...)
		case classify.Administrative:
			doc.Administrative = append(doc.Administrative, genericRows(h, dataRows)...)
		case classify.Complementary:
			doc.Complementary = append(doc.Complementary, genericRows(h, dataRows)...)
		case classify.Commission:
			doc.Commission = append(doc.Commission, genericRows(h, dataRows)...)

		default:
			log.Warnf("assemble: dropping unrecognized table, header=%q", strings.Join(h.Original, "|"))
		}
	}

	rows.SweepPersonalFields(doc.Personal)

	if doc.ActivityCount() == 0 && len(doc.Personal.Fields) == 0 {
		return nil, &herrors.ParseError{Period: periodLabel, Reason: "assembler produced no records"}
	}
	return doc, nil
}

func toCellRows(trs []htmltable.Row) [][]string {
	out := make([][]string, len(trs))
	for i, r := range trs {
		out[i] = r.Cells
	}
	return out
}

func genericRows(h header.Resolved, dataRows []htmltable.Row) []model.GenericActivity {
	var out []model.GenericActivity
	for _, r := range dataRows {
		g := rows.Generic(h, r.Cells)
		if allEmpty(g.Raw) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func allEmpty(m map[string]string) bool {
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func mergePersonal(dst, src *model.PersonalInfo) {
	for k, v := range src.Raw {
		dst.Raw[k] = v
	}
	for k, v := range src.Fields {
		if _, already := dst.Fields[k]; !already {
			dst.Fields[k] = v
		}
	}
}
