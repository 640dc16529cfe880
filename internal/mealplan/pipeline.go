package mealplan

import (
	"time"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/compliance"
	"mealplan-backend/internal/residents"
	"mealplan-backend/internal/shared/metrics"
	"mealplan-backend/internal/shared/telemetry"
)

// Outcome is the per-resident pipeline result code.
type Outcome string

const (
	OutcomePlanned         Outcome = "planned"
	OutcomeMissingCoverage Outcome = "missing_coverage"
	OutcomeUnclassified    Outcome = "unclassified"
)

// Input is the set of tables one run works on.
type Input struct {
	Catalog   catalog.Catalog
	Residents []residents.Resident
	// Standards is optional; a nil table skips compliance evaluation.
	Standards compliance.Table
}

// Plan is the assembled, adjusted daily menu for one resident.
type Plan struct {
	ResidentID string             `json:"residentId"`
	Disease    residents.Disease  `json:"disease"`
	DiseaseSet string             `json:"diseaseSet"`
	Option     Option             `json:"option"`
	Rows       []catalog.Entry    `json:"rows"`
	Target     Target             `json:"target"`
	Adjustment Adjustment         `json:"adjustment"`
	Totals     catalog.Nutrients  `json:"totals"`
	Compliance *compliance.Report `json:"compliance,omitempty"`
}

// ResidentReport records what happened to one input row.
type ResidentReport struct {
	ResidentID  string            `json:"residentId"`
	Disease     residents.Disease `json:"disease"`
	Outcome     Outcome           `json:"outcome"`
	TargetError string            `json:"targetError,omitempty"`
	Factor      float64           `json:"factor,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Residents    int                       `json:"residents"`
	Planned      int                       `json:"planned"`
	Skipped      map[Outcome]int           `json:"skipped"`
	TargetErrors int                       `json:"targetErrors"`
	Adjusted     int                       `json:"adjusted"`
	ByDisease    map[residents.Disease]int `json:"byDisease"`
}

// Result is the output of one pipeline run.
type Result struct {
	Plans   []Plan           `json:"plans"`
	Reports []ResidentReport `json:"reports"`
	Summary Summary          `json:"summary"`
}

// Bucket groups the plans of one primary disease.
type Bucket struct {
	Disease residents.Disease
	Plans   []Plan
}

// Buckets groups plans by primary disease in reporting order. Empty buckets
// are omitted.
func (r Result) Buckets() []Bucket {
	var out []Bucket
	for _, d := range residents.BucketOrder {
		var plans []Plan
		for _, p := range r.Plans {
			if p.Disease == d {
				plans = append(plans, p)
			}
		}
		if len(plans) > 0 {
			out = append(out, Bucket{Disease: d, Plans: plans})
		}
	}
	return out
}

// Pipeline runs classification through compliance for a batch of residents.
type Pipeline struct {
	Policy RatioPolicy
}

// NewPipeline returns a pipeline using policy, or snapping when nil.
func NewPipeline(policy RatioPolicy) *Pipeline {
	if policy == nil {
		policy = SnapPolicy{Steps: DefaultSnapSteps}
	}
	return &Pipeline{Policy: policy}
}

// Run processes every resident independently. A resident that cannot be
// planned is reported and skipped; it never fails the run.
func (p *Pipeline) Run(in Input) Result {
	start := time.Now()
	menu := in.Catalog.Required()

	res := Result{
		Summary: Summary{
			Residents: len(in.Residents),
			Skipped:   map[Outcome]int{},
			ByDisease: map[residents.Disease]int{},
		},
	}

	for _, r := range in.Residents {
		plan, report := p.planResident(menu, r, in.Standards)
		res.Reports = append(res.Reports, report)
		if report.Outcome != OutcomePlanned {
			res.Summary.Skipped[report.Outcome]++
			continue
		}
		res.Plans = append(res.Plans, plan)
		res.Summary.Planned++
		res.Summary.ByDisease[plan.Disease]++
		if report.TargetError != "" {
			res.Summary.TargetErrors++
		}
		if plan.Adjustment.Applied {
			res.Summary.Adjusted++
		}
		if plan.Compliance != nil {
			metrics.AddComplianceFailures(plan.Compliance.Failures())
		}
	}

	skipped := res.Summary.Residents - res.Summary.Planned
	metrics.IncRuns()
	metrics.AddPlanned(res.Summary.Planned)
	metrics.AddSkipped(skipped)
	metrics.AddTargetErrors(res.Summary.TargetErrors)
	metrics.AddAdjusted(res.Summary.Adjusted)
	metrics.ObserveRunDurationMs(metrics.SinceMillis(start))

	telemetry.Info("mealplan.generated", map[string]any{
		"residents":     res.Summary.Residents,
		"planned":       res.Summary.Planned,
		"skipped":       skipped,
		"target_errors": res.Summary.TargetErrors,
		"adjusted":      res.Summary.Adjusted,
		"policy":        p.Policy.Name(),
	})
	return res
}

func (p *Pipeline) planResident(menu catalog.Catalog, r residents.Resident, standards compliance.Table) (Plan, ResidentReport) {
	cls := residents.Classify(r.Flags)
	report := ResidentReport{ResidentID: r.ID, Disease: cls.Primary}

	if cls.Primary == residents.DiseaseNone {
		report.Outcome = OutcomeUnclassified
		telemetry.Warn("mealplan.resident_skipped", map[string]any{
			"resident_id": r.ID,
			"reason":      string(OutcomeUnclassified),
		})
		return Plan{}, report
	}

	selected, err := SelectMenu(menu, cls.Primary)
	if err != nil {
		report.Outcome = OutcomeMissingCoverage
		telemetry.Warn("mealplan.resident_skipped", map[string]any{
			"resident_id": r.ID,
			"reason":      string(OutcomeMissingCoverage),
			"disease":     string(cls.Primary),
			"error":       err.Error(),
		})
		return Plan{}, report
	}

	opt := ResolveOption(r.RiceType, r.SideType)
	rows := Customize(selected, opt)

	target := TargetFor(r.Body)
	if !target.Valid() {
		report.TargetError = target.Err
		telemetry.Warn("mealplan.target_error", map[string]any{
			"resident_id": r.ID,
			"error":       target.Err,
		})
	}

	adjusted, adj := Adjust(rows, target, p.Policy)
	plan := Plan{
		ResidentID: r.ID,
		Disease:    cls.Primary,
		DiseaseSet: cls.DiseaseSet,
		Option:     opt,
		Rows:       adjusted,
		Target:     target,
		Adjustment: adj,
		Totals:     Totals(adjusted),
	}

	if standards != nil && target.Valid() {
		rep := compliance.Evaluate(standards, cls.DiseaseSet, plan.Totals)
		if !rep.Matched {
			telemetry.Warn("compliance.lookup_miss", map[string]any{
				"resident_id": r.ID,
				"key":         rep.Key,
			})
		}
		plan.Compliance = &rep
	}

	report.Outcome = OutcomePlanned
	report.Factor = adj.Factor
	return plan, report
}
