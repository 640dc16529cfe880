package mealplan

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/residents"
)

const (
	lunchShare   = 0.3
	kcalPerGCarb = 4.0
	kcalPerGProt = 4.0
	kcalPerGFat  = 9.0

	// TargetErrorText is shown in place of a range that could not be computed.
	TargetErrorText = "error"
)

var (
	maleTokens   = []string{"남", "남자", "남성", "m", "male"}
	femaleTokens = []string{"여", "여자", "여성", "f", "female"}
)

// Range is an inclusive acceptable interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// String formats the range as "min ~ max".
func (r Range) String() string {
	return fmt.Sprintf("%.1f ~ %.1f", r.Min, r.Max)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) scale(f float64) Range {
	return Range{Min: r.Min * f, Max: r.Max * f}
}

// Target is a resident's single-meal acceptable range for energy and the
// three macronutrients. A target whose Err is set is not usable.
type Target struct {
	Energy       Range  `json:"energy"`
	Carbohydrate Range  `json:"carbohydrate"`
	Protein      Range  `json:"protein"`
	Fat          Range  `json:"fat"`
	Err          string `json:"error,omitempty"`
}

// Valid reports whether the ranges were computed.
func (t Target) Valid() bool {
	return t.Err == ""
}

// Range returns the range for n when n is one of the targeted nutrients.
func (t Target) Range(n catalog.Nutrient) (Range, bool) {
	switch n {
	case catalog.Energy:
		return t.Energy, true
	case catalog.Carbohydrate:
		return t.Carbohydrate, true
	case catalog.Protein:
		return t.Protein, true
	case catalog.Fat:
		return t.Fat, true
	}
	return Range{}, false
}

// Text formats the range for n, or the error sentinel for an invalid target.
func (t Target) Text(n catalog.Nutrient) string {
	if !t.Valid() {
		return TargetErrorText
	}
	r, ok := t.Range(n)
	if !ok {
		return ""
	}
	return r.String()
}

// TargetNutrients are the nutrients a Target covers, in adjustment order.
var TargetNutrients = []catalog.Nutrient{catalog.Energy, catalog.Carbohydrate, catalog.Protein, catalog.Fat}

// TargetFor computes the meal target and folds any failure into the error
// sentinel so one bad row never stops a batch.
func TargetFor(body residents.Body) Target {
	t, err := ComputeTarget(body)
	if err != nil {
		return Target{Err: err.Error()}
	}
	return t
}

// ComputeTarget derives the single-meal target from body metrics using the
// estimated energy requirement and a BMI-bracket energy range.
func ComputeTarget(body residents.Body) (Target, error) {
	m, err := parseMetrics(body)
	if err != nil {
		return Target{}, err
	}

	heightM := m.heightCm / 100
	bmi := m.weightKg / (heightM * heightM)

	var eer float64
	switch m.sex {
	case sexMale:
		eer = 662 - 9.53*m.age + m.activity*(15.91*m.weightKg+539.6*heightM)
	default:
		eer = 354 - 6.91*m.age + m.activity*(9.36*m.weightKg+726*heightM)
	}

	energy := energyRange(bmi, eer)

	proteinFloor := 50.0
	if m.sex == sexFemale {
		proteinFloor = 40.0
	}
	daily := Target{
		Energy: energy,
		Carbohydrate: Range{
			Min: energy.Min * 0.55 / kcalPerGCarb,
			Max: energy.Max * 0.65 / kcalPerGCarb,
		},
		Protein: Range{
			Min: math.Max(proteinFloor, energy.Min*0.07/kcalPerGProt),
			Max: energy.Max * 0.20 / kcalPerGProt,
		},
		Fat: Range{
			Min: energy.Min * 0.15 / kcalPerGFat,
			Max: energy.Max * 0.30 / kcalPerGFat,
		},
	}

	return Target{
		Energy:       daily.Energy.scale(lunchShare),
		Carbohydrate: daily.Carbohydrate.scale(lunchShare),
		Protein:      daily.Protein.scale(lunchShare),
		Fat:          daily.Fat.scale(lunchShare),
	}, nil
}

// energyRange returns the daily energy range for a BMI bracket.
func energyRange(bmi, eer float64) Range {
	switch {
	case bmi >= 25:
		return Range{Min: eer - 700, Max: eer - 500}
	case bmi >= 23:
		return Range{Min: eer - 500, Max: eer - 300}
	case bmi >= 18.5:
		return Range{Min: eer * 0.9, Max: eer * 1.1}
	default:
		return Range{Min: eer + 300, Max: eer + 500}
	}
}

type sex int

const (
	sexMale sex = iota + 1
	sexFemale
)

type bodyMetrics struct {
	sex      sex
	age      float64
	weightKg float64
	heightCm float64
	activity float64
}

func parseMetrics(body residents.Body) (bodyMetrics, error) {
	var m bodyMetrics

	switch token := strings.ToLower(strings.TrimSpace(body.Sex)); {
	case slices.Contains(maleTokens, token):
		m.sex = sexMale
	case slices.Contains(femaleTokens, token):
		m.sex = sexFemale
	default:
		return bodyMetrics{}, fmt.Errorf("%w: unrecognized sex %q", ErrInvalidInput, body.Sex)
	}

	var err error
	if m.age, err = parseNumber("age", body.Age); err != nil {
		return bodyMetrics{}, err
	}
	if m.weightKg, err = parseNumber("weight", body.WeightKg); err != nil {
		return bodyMetrics{}, err
	}
	if m.heightCm, err = parseNumber("height", body.HeightCm); err != nil {
		return bodyMetrics{}, err
	}
	if m.weightKg <= 0 || m.heightCm <= 0 {
		return bodyMetrics{}, fmt.Errorf("%w: weight and height must be positive", ErrInvalidInput)
	}

	level, err := parseNumber("activity", body.Activity)
	if err != nil {
		return bodyMetrics{}, err
	}
	switch level {
	case 1:
		m.activity = 1.0
	case 2:
		m.activity = 1.1
	case 3:
		m.activity = 1.2
	default:
		return bodyMetrics{}, fmt.Errorf("%w: activity level %v not in 1-3", ErrInvalidInput, level)
	}
	return m, nil
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, field, raw)
	}
	return v, nil
}
