package classify

import (
	"regexp"
	"strings"
)

// Polarity is the outcome of the Course Polarity Classifier
// (spec.md §4.6): a total function over every course row.
type Polarity int

const (
	Undergraduate Polarity = iota
	Graduate
)

func (p Polarity) String() string {
	if p == Graduate {
		return "graduate"
	}
	return "undergraduate"
}

// gradKeywords and undergradKeywords are matched as uppercase substrings
// against the course's NOMBRE, TIPO and GRUPO fields (spec.md §4.6
// step 2/3).
var gradKeywords = []string{
	"MAESTRIA", "MAESTRÍA", "MAGISTER", "MASTER", "MAESTR",
	"DOCTORADO", "DOCTORAL", "PHD", "DOCTOR",
	"ESPECIALIZA", "ESPECIALIZACION", "ESPECIALIZACIÓN",
	"POSTGRADO", "POSGRADO", "POST-GRADO", "POST GRADO",
	"POSTGRADUADO", "POSGRADUADO",
}

var undergradKeywords = []string{
	"LICENCIATURA", "INGENIERIA", "INGENERÍA", "BACHILLERATO",
	"TECNOLOGIA", "TECNOLOGÍA", "PROFESIONAL", "CARRERA",
	"PREGRADO", "PRIMER CICLO", "UNDERGRADUATE", "TECNICO", "TÉCNICO",
}

var (
	reGrad61x  = regexp.MustCompile(`^61[7-9]\d{2,}$`)
	reGrad7_9  = regexp.MustCompile(`^[7-9]\d{2,}$`)
	reGrad07_9 = regexp.MustCompile(`^0[7-9]\d{2,}$`)
	reGrad62x  = regexp.MustCompile(`^62[7-9]\d{2,}$`)

	reUndergrad1_5 = regexp.MustCompile(`^[1-5]\d{3,}$`)
	reUndergrad01_6 = regexp.MustCompile(`^0[1-6]\d{2,}$`)
	reUndergrad6xxx = regexp.MustCompile(`^6\d{3,}$`)

	reLettersOnly = regexp.MustCompile(`[A-Za-z]`)
)

// SectionContext is the surrounding-subtitle hint the extractor may
// supply for a course row (spec.md §4.6 step 1). Zero value means "no
// hint available".
type SectionContext int

const (
	NoContext SectionContext = iota
	ContextUndergrad
	ContextGrad
)

// SectionContextFromText classifies the subtitle text the Table
// Extractor found immediately above a course table (spec.md §4.6 step
// 1), using the same keyword vectors as the fallback keyword step.
// Empty or keyword-free text yields NoContext, so the cascade falls
// through to step 2.
func SectionContextFromText(text string) SectionContext {
	u := strings.ToUpper(text)
	if containsAny(u, gradKeywords...) {
		return ContextGrad
	}
	if containsAny(u, undergradKeywords...) {
		return ContextUndergrad
	}
	return NoContext
}

// CoursePolarity classifies one course row. code, nombre, tipo and grupo
// should already be normalized (trimmed, whitespace-collapsed); case is
// handled internally.
func CoursePolarity(ctx SectionContext, code, nombre, tipo, grupo string) Polarity {
	switch ctx {
	case ContextUndergrad:
		return Undergraduate
	case ContextGrad:
		return Graduate
	}

	upperFields := strings.ToUpper(nombre) + " " + strings.ToUpper(tipo) + " " + strings.ToUpper(grupo)
	if containsAny(upperFields, gradKeywords...) {
		return Graduate
	}
	if containsAny(upperFields, undergradKeywords...) {
		return Undergraduate
	}

	digits := reLettersOnly.ReplaceAllString(code, "")
	if digits != "" {
		if isGradNumeric(digits) {
			return Graduate
		}
		if isUndergradNumeric(digits) {
			return Undergraduate
		}
	}

	trimmed := strings.TrimSpace(code)
	if trimmed != "" {
		switch strings.ToUpper(trimmed[:1]) {
		case "M", "D", "E", "P":
			return Graduate
		case "L", "I", "T", "B":
			return Undergraduate
		}
	}

	return Undergraduate
}

func isGradNumeric(d string) bool {
	if reGrad61x.MatchString(d) || reGrad7_9.MatchString(d) || reGrad07_9.MatchString(d) || reGrad62x.MatchString(d) {
		return true
	}
	if len(d) >= 4 {
		first := d[0]
		second := d[1]
		firstNot1to6 := first < '1' || first > '6'
		secondIn789 := second == '7' || second == '8' || second == '9'
		if firstNot1to6 && secondIn789 {
			return true
		}
	}
	return false
}

func isUndergradNumeric(d string) bool {
	if reUndergrad1_5.MatchString(d) || reUndergrad01_6.MatchString(d) {
		return true
	}
	if reUndergrad6xxx.MatchString(d) {
		second := d[1]
		if second == '0' || second == '3' || second == '4' || second == '5' || second == '6' || second == '9' {
			return true
		}
		if second == '1' || second == '2' {
			third := d[2]
			if third != '7' && third != '8' && third != '9' {
				return true
			}
		}
	}
	return false
}
