package mealplan

import (
	"errors"
	"math"
	"testing"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/residents"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeTargetMaleNormalBMI(t *testing.T) {
	got, err := ComputeTarget(residents.Body{Sex: "남", Age: "80", WeightKg: "60", HeightCm: "165", Activity: "1"})
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	eer := 662 - 9.53*80 + 1.0*(15.91*60+539.6*1.65)
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"energy.min", got.Energy.Min, eer * 0.9 * 0.3},
		{"energy.max", got.Energy.Max, eer * 1.1 * 0.3},
		{"carb.min", got.Carbohydrate.Min, eer * 0.9 * 0.55 / 4 * 0.3},
		{"carb.max", got.Carbohydrate.Max, eer * 1.1 * 0.65 / 4 * 0.3},
		{"protein.min", got.Protein.Min, 50 * 0.3},
		{"protein.max", got.Protein.Max, eer * 1.1 * 0.20 / 4 * 0.3},
		{"fat.min", got.Fat.Min, eer * 0.9 * 0.15 / 9 * 0.3},
		{"fat.max", got.Fat.Max, eer * 1.1 * 0.30 / 9 * 0.3},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Fatalf("%s: expected %.6f, got %.6f", c.name, c.want, c.got)
		}
	}
}

func TestComputeTargetFemaleObese(t *testing.T) {
	got, err := ComputeTarget(residents.Body{Sex: "여성", Age: "85", WeightKg: "70", HeightCm: "150", Activity: "2"})
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	eer := 354 - 6.91*85 + 1.1*(9.36*70+726*1.5)
	if !approx(got.Energy.Min, (eer-700)*0.3) || !approx(got.Energy.Max, (eer-500)*0.3) {
		t.Fatalf("unexpected energy range %+v for eer %.2f", got.Energy, eer)
	}
	if !approx(got.Protein.Min, 40*0.3) {
		t.Fatalf("expected female protein floor, got %.4f", got.Protein.Min)
	}
}

func TestEnergyRangeBrackets(t *testing.T) {
	const eer = 1500.0
	cases := []struct {
		bmi  float64
		want Range
	}{
		{bmi: 30, want: Range{Min: 800, Max: 1000}},
		{bmi: 25, want: Range{Min: 800, Max: 1000}},
		{bmi: 24.9, want: Range{Min: 1000, Max: 1200}},
		{bmi: 23, want: Range{Min: 1000, Max: 1200}},
		{bmi: 22.9, want: Range{Min: 1350, Max: 1650}},
		{bmi: 18.5, want: Range{Min: 1350, Max: 1650}},
		{bmi: 18.4, want: Range{Min: 1800, Max: 2000}},
	}
	for _, tc := range cases {
		got := energyRange(tc.bmi, eer)
		if !approx(got.Min, tc.want.Min) || !approx(got.Max, tc.want.Max) {
			t.Fatalf("bmi %.1f: expected %+v, got %+v", tc.bmi, tc.want, got)
		}
	}
}

func TestComputeTargetInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		body residents.Body
	}{
		{name: "sex", body: residents.Body{Sex: "X", Age: "80", WeightKg: "60", HeightCm: "160", Activity: "1"}},
		{name: "age", body: residents.Body{Sex: "남", Age: "팔십", WeightKg: "60", HeightCm: "160", Activity: "1"}},
		{name: "height", body: residents.Body{Sex: "여", Age: "80", WeightKg: "60", HeightCm: "0", Activity: "1"}},
		{name: "activity", body: residents.Body{Sex: "여", Age: "80", WeightKg: "60", HeightCm: "160", Activity: "4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeTarget(tc.body); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			target := TargetFor(tc.body)
			if target.Valid() {
				t.Fatalf("expected invalid target")
			}
			for _, n := range TargetNutrients {
				if got := target.Text(n); got != TargetErrorText {
					t.Fatalf("%s: expected %q, got %q", n, TargetErrorText, got)
				}
			}
		})
	}
}

func TestTargetText(t *testing.T) {
	target := Target{Energy: Range{Min: 450.04, Max: 550.06}}
	if got := target.Text(catalog.Energy); got != "450.0 ~ 550.1" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := target.Text(catalog.Sodium); got != "" {
		t.Fatalf("expected empty text for untargeted nutrient, got %q", got)
	}
}
