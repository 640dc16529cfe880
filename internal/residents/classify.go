package residents

import (
	"sort"
	"strings"
)

// Classification is the classifier output for one resident.
type Classification struct {
	Primary    Disease `json:"primary"`
	DiseaseSet string  `json:"diseaseSet"`
}

// Classify resolves the primary disease and the full disease-set label.
// Rules are checked in order; combined kidney conditions resolve to kidney
// and diabetes with hypertension resolves to hypertension.
func Classify(f Flags) Classification {
	return Classification{
		Primary:    primaryDisease(f),
		DiseaseSet: diseaseSet(f),
	}
}

func primaryDisease(f Flags) Disease {
	switch {
	case f.Dysphagia:
		return DiseaseDysphagia
	case f.Hypertension && f.Kidney:
		return DiseaseKidney
	case f.Diabetes && f.Kidney:
		return DiseaseKidney
	case f.Diabetes && f.Hypertension:
		return DiseaseHypertension
	case f.Kidney:
		return DiseaseKidney
	case f.Hypertension:
		return DiseaseHypertension
	case f.Diabetes:
		return DiseaseDiabetes
	default:
		return DiseaseNone
	}
}

func diseaseSet(f Flags) string {
	var active []string
	if f.Dysphagia {
		active = append(active, string(DiseaseDysphagia))
	}
	if f.Hypertension {
		active = append(active, string(DiseaseHypertension))
	}
	if f.Kidney {
		active = append(active, string(DiseaseKidney))
	}
	if f.Diabetes {
		active = append(active, string(DiseaseDiabetes))
	}
	if len(active) == 0 {
		return string(DiseaseNone)
	}
	return strings.Join(active, ",")
}

var diseaseAliases = map[string]Disease{
	"연하곤란":         DiseaseDysphagia,
	"dysphagia":    DiseaseDysphagia,
	"고혈압":          DiseaseHypertension,
	"hypertension": DiseaseHypertension,
	"신장":           DiseaseKidney,
	"신장질환":         DiseaseKidney,
	"kidney":       DiseaseKidney,
	"당뇨":           DiseaseDiabetes,
	"당뇨병":          DiseaseDiabetes,
	"diabetes":     DiseaseDiabetes,
	"none":         DiseaseNone,
	"없음":           DiseaseNone,
}

// ParseDisease maps a free-form disease token to its canonical label.
func ParseDisease(token string) (Disease, bool) {
	d, ok := diseaseAliases[strings.ToLower(strings.TrimSpace(token))]
	return d, ok
}

// Tokens splits a comma-joined disease string into canonical, deduplicated,
// sorted labels. Unknown tokens are kept verbatim so they never match a
// canonical label by accident.
func Tokens(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		token := part
		if d, ok := ParseDisease(part); ok {
			token = string(d)
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// SetKey normalizes a disease-set label into the key used by nutrient
// standard tables: canonical tokens sorted and comma-joined. An empty set and
// a set holding only the none sentinel both yield "none".
func SetKey(raw string) string {
	tokens := Tokens(raw)
	filtered := tokens[:0]
	for _, t := range tokens {
		if t != string(DiseaseNone) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return string(DiseaseNone)
	}
	return strings.Join(filtered, ",")
}
