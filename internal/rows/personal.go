package rows

import (
	"strings"

	"github.com/saludunivalle/cosecha/internal/header"
	"github.com/saludunivalle/cosecha/internal/model"
)

// headerLabels lists, for each canonical PersonalInfo key, the header
// tokens a header-as-value leak could plausibly echo. Used by the
// header-leak guard (spec.md §4.4, invariant in §3/§8).
var headerLabels = map[string][]string{
	model.KeyCedula:         {"CEDULA", "DOCUMENTO", "IDENTIFICACION"},
	model.KeyNombre:         {"NOMBRE"},
	model.KeyApellido1:      {"1 APELLIDO", "PRIMER APELLIDO", "APELLIDO"},
	model.KeyApellido2:      {"2 APELLIDO", "SEGUNDO APELLIDO", "APELLIDO"},
	model.KeyUnidadAcademica: {"UNIDAD ACADEMICA"},
	model.KeyVinculacion:    {"VINCULACION"},
	model.KeyCategoria:      {"CATEGORIA"},
	model.KeyDedicacion:     {"DEDICACION"},
	model.KeyNivelAlcanzado: {"NIVEL ALCANZADO"},
	model.KeyCargo:          {"CARGO"},
}

const maxPersonalValueLen = 50

// passesHeaderLeakGuard rejects a candidate value that echoes any
// canonical header label (its own or another key's), is empty after
// trim, or is
// implausibly long for a personal-info cell.
func passesHeaderLeakGuard(canonicalKey, value string) bool {
	v := strings.TrimSpace(value)
	if v == "" || len(v) >= maxPersonalValueLen {
		return false
	}
	upper := strings.ToUpper(v)
	for _, labels := range headerLabels {
		for _, label := range labels {
			if upper == label {
				return false
			}
		}
	}
	return true
}

// classifyHeaderToken maps one header cell's uppercased text to the
// canonical PersonalInfo key it most likely represents, or "" if none
// match.
func classifyHeaderToken(upperHeader string) string {
	switch {
	case containsAny(upperHeader, "CEDULA", "DOCUMENTO", "IDENTIFICACION"):
		return model.KeyCedula
	case strings.Contains(upperHeader, "1") && strings.Contains(upperHeader, "APELLIDO"),
		strings.Contains(upperHeader, "PRIMER") && strings.Contains(upperHeader, "APELLIDO"):
		return model.KeyApellido1
	case strings.Contains(upperHeader, "2") && strings.Contains(upperHeader, "APELLIDO"),
		strings.Contains(upperHeader, "SEGUNDO") && strings.Contains(upperHeader, "APELLIDO"):
		return model.KeyApellido2
	case strings.Contains(upperHeader, "APELLIDO"):
		return model.KeyApellido1
	case strings.Contains(upperHeader, "UNIDAD") && strings.Contains(upperHeader, "ACADEMICA"):
		return model.KeyUnidadAcademica
	case strings.Contains(upperHeader, "VINCULACION"):
		return model.KeyVinculacion
	case strings.Contains(upperHeader, "CATEGORIA"):
		return model.KeyCategoria
	case strings.Contains(upperHeader, "DEDICACION"):
		return model.KeyDedicacion
	case strings.Contains(upperHeader, "NIVEL") && strings.Contains(upperHeader, "ALCANZADO"):
		return model.KeyNivelAlcanzado
	case strings.Contains(upperHeader, "CARGO") && !strings.Contains(upperHeader, "DESCRIPCION"):
		return model.KeyCargo
	case strings.Contains(upperHeader, "NOMBRE") && !strings.Contains(upperHeader, "ASIGNATURA"):
		return model.KeyNombre
	default:
		return ""
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// PersonalInfo maps a PersonalInfo table's header and its value row
// (conventionally row 1, immediately below the header) into canonical
// fields, preserving the raw header->value pairs regardless of whether
// a canonical mapping was found.
func PersonalInfo(h header.Resolved, valueRow []string) *model.PersonalInfo {
	p := model.NewPersonalInfo()

	for i, original := range h.Original {
		value := cellAt(valueRow, i)
		key := strings.TrimSpace(original)
		if key != "" {
			p.Raw[key] = value
		}

		canon := classifyHeaderToken(h.Upper[i])
		if canon == "" {
			continue
		}
		if !passesHeaderLeakGuard(canon, value) {
			continue
		}
		if _, already := p.Fields[canon]; !already {
			p.Fields[canon] = strings.TrimSpace(value)
		}
	}

	return p
}

// AdditionalInfo maps an AdditionalInfo table into the PersonalInfo
// record's VINCULACION/CATEGORIA/DEDICACION/NIVEL-ALCANZADO slots. It
// tries a horizontal layout (header row aligned with a value row) and a
// vertical layout (each row is a [label, value] pair) and merges
// whichever finds values, always behind the header-leak guard.
func AdditionalInfo(h header.Resolved, dataRows [][]string) map[string]string {
	out := map[string]string{}

	// Horizontal: header cell i's canonical key maps to dataRows[0][i].
	if len(dataRows) > 0 {
		valueRow := dataRows[0]
		for i, upperHeader := range h.Upper {
			canon := classifyHeaderToken(upperHeader)
			if canon == "" {
				continue
			}
			if _, ok := containsKey(model.SweepableKeys, canon); !ok {
				continue
			}
			v := cellAt(valueRow, i)
			if passesHeaderLeakGuard(canon, v) {
				out[canon] = strings.TrimSpace(v)
			}
		}
	}

	// Vertical: each row is [label, value, ...]; label in column 0.
	for _, row := range dataRows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToUpper(strings.TrimSpace(row[0]))
		canon := classifyHeaderToken(label)
		if canon == "" {
			continue
		}
		if _, ok := containsKey(model.SweepableKeys, canon); !ok {
			continue
		}
		if _, already := out[canon]; already {
			continue
		}
		v := row[1]
		if passesHeaderLeakGuard(canon, v) {
			out[canon] = strings.TrimSpace(v)
		}
	}

	return out
}

func containsKey(keys []string, key string) (string, bool) {
	for _, k := range keys {
		if k == key {
			return k, true
		}
	}
	return "", false
}

// SweepPersonalFields backfills any of VINCULACION/CATEGORIA/DEDICACION/
// NIVEL-ALCANZADO still missing on p from its own previously-stored raw
// header->value pairs (spec.md §4.4's "exhaustive personal-field
// sweep"), again behind the header-leak guard.
func SweepPersonalFields(p *model.PersonalInfo) {
	for _, key := range model.SweepableKeys {
		if p.Has(key) {
			continue
		}
		for rawHeader, rawValue := range p.Raw {
			canon := classifyHeaderToken(strings.ToUpper(rawHeader))
			if canon != key {
				continue
			}
			if passesHeaderLeakGuard(canon, rawValue) {
				p.Fields[key] = strings.TrimSpace(rawValue)
				break
			}
		}
	}
}
