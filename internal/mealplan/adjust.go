package mealplan

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"mealplan-backend/internal/catalog"
)

// AdjustableCategories are the rows rescaled to bring a meal into range.
var AdjustableCategories = []catalog.Category{catalog.Rice, catalog.Main}

// RatioPolicy bounds a raw adjustment ratio to a servable portion factor.
type RatioPolicy interface {
	Name() string
	Bound(raw float64) float64
}

// SnapPolicy snaps a ratio to the nearest allowed portion step. Ties resolve
// toward 1.0.
type SnapPolicy struct {
	Steps []float64
}

// DefaultSnapSteps are the portion steps the kitchen can serve.
var DefaultSnapSteps = []float64{0.25, 0.5, 1.0, 1.25, 2.0}

func (p SnapPolicy) Name() string { return "snap" }

func (p SnapPolicy) Bound(raw float64) float64 {
	steps := p.Steps
	if len(steps) == 0 {
		steps = DefaultSnapSteps
	}
	best := steps[0]
	for _, s := range steps[1:] {
		d, bd := math.Abs(raw-s), math.Abs(raw-best)
		if d < bd || (d == bd && math.Abs(s-1) < math.Abs(best-1)) {
			best = s
		}
	}
	return best
}

// ClampPolicy clamps a ratio into [Min, Max].
type ClampPolicy struct {
	Min float64
	Max float64
}

func (p ClampPolicy) Name() string { return "clamp" }

func (p ClampPolicy) Bound(raw float64) float64 {
	return math.Min(p.Max, math.Max(p.Min, raw))
}

// PolicyByName returns the configured policy. An empty name selects snapping.
func PolicyByName(name string) (RatioPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snap":
		return SnapPolicy{Steps: DefaultSnapSteps}, nil
	case "clamp":
		return ClampPolicy{Min: 0.2, Max: 1.5}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Adjustment records the single corrective scaling applied to a meal.
type Adjustment struct {
	Nutrient catalog.Nutrient `json:"nutrient,omitempty"`
	Raw      float64          `json:"raw"`
	Factor   float64          `json:"factor"`
	Applied  bool             `json:"applied"`
	Skipped  string           `json:"skipped,omitempty"`
}

// Ratio is the scale for the adjustable contribution that would move total
// into r. A zero contribution cannot be scaled and yields 1.0.
func Ratio(total, contribution float64, r Range) float64 {
	if contribution == 0 {
		return 1.0
	}
	switch {
	case total < r.Min:
		return (contribution + (r.Min - total)) / contribution
	case total > r.Max:
		return (contribution - (total - r.Max)) / contribution
	default:
		return 1.0
	}
}

// Totals sums the nutrient vectors of rows.
func Totals(rows []catalog.Entry) catalog.Nutrients {
	var sum catalog.Nutrients
	for _, r := range rows {
		sum = sum.Add(r.Nutrients)
	}
	return sum
}

// Adjust performs one corrective scaling of the adjustable rows. The ratio
// farthest from 1.0 across the targeted nutrients is bounded by policy and
// applied to every nutrient column of those rows. Rows are returned as a new
// slice; an invalid target leaves them unchanged.
func Adjust(rows []catalog.Entry, target Target, policy RatioPolicy) ([]catalog.Entry, Adjustment) {
	out := make([]catalog.Entry, len(rows))
	copy(out, rows)

	if !target.Valid() {
		return out, Adjustment{Raw: 1, Factor: 1, Skipped: "target_error"}
	}

	totals := Totals(rows)
	var base []catalog.Entry
	for _, r := range rows {
		if slices.Contains(AdjustableCategories, r.Category) {
			base = append(base, r)
		}
	}
	contribution := Totals(base)

	adj := Adjustment{Raw: 1}
	for _, n := range TargetNutrients {
		r, _ := target.Range(n)
		total, _ := totals.Get(n)
		part, _ := contribution.Get(n)
		raw := Ratio(total, part, r)
		if math.Abs(raw-1) > math.Abs(adj.Raw-1) {
			adj.Raw = raw
			adj.Nutrient = n
		}
	}

	adj.Factor = policy.Bound(adj.Raw)
	if adj.Factor == 1.0 {
		return out, adj
	}
	for i := range out {
		if slices.Contains(AdjustableCategories, out[i].Category) {
			out[i].Nutrients = out[i].Nutrients.Scale(adj.Factor)
		}
	}
	adj.Applied = true
	return out, adj
}
