// Package classify implements the Table Classifier (spec.md §4.4) and
// the Course Polarity Classifier (spec.md §4.6), both built as explicit
// prioritized rule vectors of (predicate, outcome) pairs so that the
// spec.md §8 scenarios map one-to-one onto test cases (see the Classifier
// cascades guidance in spec.md §9).
package classify

import (
	"strings"

	"github.com/saludunivalle/cosecha/internal/header"
)

// TableKind is one of the ten table kinds the classifier recognizes,
// or Unknown for a table that matches none of them.
type TableKind int

const (
	Unknown TableKind = iota
	PersonalInfo
	AdditionalInfo
	Courses
	ThesisDirection
	Research
	Extension
	Intellectual
	Administrative
	Complementary
	Commission
)

func (k TableKind) String() string {
	switch k {
	case PersonalInfo:
		return "PersonalInfo"
	case AdditionalInfo:
		return "AdditionalInfo"
	case Courses:
		return "Courses"
	case ThesisDirection:
		return "ThesisDirection"
	case Research:
		return "Research"
	case Extension:
		return "Extension"
	case Intellectual:
		return "Intellectual"
	case Administrative:
		return "Administrative"
	case Complementary:
		return "Complementary"
	case Commission:
		return "Commission"
	default:
		return "Unknown"
	}
}

// rule is one (predicate, outcome) pair in the classifier cascade.
type rule struct {
	kind TableKind
	test func(h header.Resolved) bool
}

// cascade is evaluated top-down; the first matching rule wins. Order
// matches spec.md §4.4 exactly.
var cascade = []rule{
	{PersonalInfo, isPersonalInfo},
	{AdditionalInfo, isAdditionalInfo},
	{Courses, isCourseTable},
	{ThesisDirection, isThesisTable},
	{Complementary, func(h header.Resolved) bool { return strings.Contains(h.Joined(), "PARTICIPACION EN") }},
	{Commission, func(h header.Resolved) bool { return strings.Contains(h.Joined(), "TIPO DE COMISION") }},
	{Research, isResearchTable},
	{Administrative, isAdministrativeTable},
	{Extension, isExtensionTable},
	{Intellectual, isIntellectualTable},
}

// Table classifies one table by its resolved header, returning Unknown
// if no rule in the cascade matches (the caller logs and drops it).
func Table(h header.Resolved) TableKind {
	for _, r := range cascade {
		if r.test(h) {
			return r.kind
		}
	}
	return Unknown
}

func isPersonalInfo(h header.Resolved) bool {
	j := h.Joined()
	hasID := containsAny(j, "CEDULA", "DOCUMENTO", "DOCENTES", "IDENTIFICACION")
	hasName := containsAny(j, "APELLIDO", "APELLIDOS", "NOMBRE")
	return hasID && hasName
}

func isAdditionalInfo(h header.Resolved) bool {
	j := h.Joined()
	hasMarker := containsAny(j, "VINCULACION", "CATEGORIA", "DEDICACION", "NIVEL ALCANZADO")
	return hasMarker && !strings.Contains(j, "CEDULA")
}

func isCourseTable(h header.Resolved) bool {
	j := h.Joined()
	hasCodigo := strings.Contains(j, "CODIGO") && !strings.Contains(j, "CODIGO ESTUDIANTE")
	hasNameish := (strings.Contains(j, "NOMBRE") && strings.Contains(j, "ASIGNATURA")) ||
		strings.Contains(j, "TIPO") || strings.Contains(j, "GRUPO")
	hasHours := containsAny(j, "HORAS", "SEMESTRE")
	return hasCodigo && hasNameish && hasHours &&
		!strings.Contains(j, "ESTUDIANTE") && !strings.Contains(j, "TESIS")
}

func isResearchAntiRuleTokens(j string) bool {
	return strings.Contains(j, "ANTEPROYECTO") ||
		(strings.Contains(j, "PROPUESTA") && strings.Contains(j, "INVESTIGACION"))
}

func isThesisTable(h header.Resolved) bool {
	j := h.Joined()

	strongThesis := (strings.Contains(j, "CODIGO") && strings.Contains(j, "ESTUDIANTE")) ||
		(strings.Contains(j, "DIRECCION") && strings.Contains(j, "TESIS"))

	weakThesis := strings.Contains(j, "ESTUDIANTE") &&
		(strings.Contains(j, "PLAN") || containsAny(j, "TITULO", "TESIS"))

	isThesisShape := strongThesis || weakThesis
	if !isThesisShape {
		return false
	}

	// Anti-rule: a table that also carries research-proposal markers is
	// excluded unless a strong thesis indicator (student code, or an
	// explicit "direccion de tesis" heading) is present.
	if isResearchAntiRuleTokens(j) && !strongThesis {
		return false
	}
	return true
}

func isResearchTable(h header.Resolved) bool {
	j := h.Joined()
	return strings.Contains(j, "PROYECTO DE INVESTIGACION") || isResearchAntiRuleTokens(j)
}

func isAdministrativeTable(h header.Resolved) bool {
	j := h.Joined()
	return strings.Contains(j, "CARGO") && strings.Contains(j, "DESCRIPCION DEL CARGO")
}

func isExtensionTable(h header.Resolved) bool {
	j := h.Joined()
	hasShape := strings.Contains(j, "TIPO") && strings.Contains(j, "NOMBRE") && containsAny(j, "HORAS", "SEMESTRE")
	return hasShape && !strings.Contains(j, "APROBADO")
}

func isIntellectualTable(h header.Resolved) bool {
	j := h.Joined()
	return strings.Contains(j, "APROBADO") && strings.Contains(j, "TIPO") && strings.Contains(j, "NOMBRE")
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
