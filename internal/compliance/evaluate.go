package compliance

import (
	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/residents"
)

// Result is the outcome for one nutrient. The empty value means the rule
// was absent or unrecognized.
type Result string

const (
	Meets   Result = "meets"
	Fails   Result = "fails"
	Unknown Result = ""
)

// Item is one evaluated nutrient.
type Item struct {
	Nutrient catalog.Nutrient `json:"nutrient"`
	Rule     string           `json:"rule"`
	Actual   float64          `json:"actual"`
	Result   Result           `json:"result"`
}

// Report is the evaluation of one meal against a disease-set standard.
type Report struct {
	Key     string `json:"key"`
	Matched bool   `json:"matched"`
	Items   []Item `json:"items"`
}

// Failures counts items that failed.
func (r Report) Failures() int {
	n := 0
	for _, it := range r.Items {
		if it.Result == Fails {
			n++
		}
	}
	return n
}

// Result returns the outcome for n.
func (r Report) Result(n catalog.Nutrient) Result {
	for _, it := range r.Items {
		if it.Nutrient == n {
			return it.Result
		}
	}
	return Unknown
}

// kcalPerGram converts nutrient mass to energy for percent-of-energy rules.
var kcalPerGram = map[catalog.Nutrient]float64{
	catalog.Carbohydrate: 4,
	catalog.Protein:      4,
	catalog.Sugar:        4,
	catalog.Fat:          9,
	catalog.SaturatedFat: 9,
}

// Evaluate compares meal totals against the standard for diseaseSet. Every
// tracked nutrient except weight gets an item; nutrients without a usable
// rule evaluate to Unknown.
func Evaluate(t Table, diseaseSet string, totals catalog.Nutrients) Report {
	rules, matched := t.Lookup(diseaseSet)
	report := Report{Key: residents.SetKey(diseaseSet), Matched: matched}
	for _, c := range catalog.Columns {
		if c.Nutrient == catalog.Weight {
			continue
		}
		actual, _ := totals.Get(c.Nutrient)
		text := rules[c.Nutrient]
		report.Items = append(report.Items, Item{
			Nutrient: c.Nutrient,
			Rule:     text,
			Actual:   actual,
			Result:   evaluateOne(text, c.Nutrient, actual, totals.Energy),
		})
	}
	return report
}

func evaluateOne(text string, n catalog.Nutrient, actual, energy float64) Result {
	rule, ok := ParseRule(text)
	if !ok {
		return Unknown
	}
	value := actual
	if rule.Percent {
		kcal, convertible := kcalPerGram[n]
		if !convertible || energy <= 0 {
			return Unknown
		}
		value = actual * kcal / energy * 100
	}
	if rule.Check(value) {
		return Meets
	}
	return Fails
}
