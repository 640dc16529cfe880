package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/mealplan"
)

// Output sheet names besides the per-disease sheets.
const (
	ComplianceSheet = "영양기준평가"
	TargetsSheet    = "개인별목표"
)

// Options controls which optional sheets are written.
type Options struct {
	IncludeCompliance bool
}

// Write renders a pipeline result as an xlsx workbook: one sheet per disease
// bucket, an optional compliance sheet and a per-resident targets sheet.
func Write(w io.Writer, res mealplan.Result, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	type sheet struct {
		name string
		rows [][]any
	}
	var sheets []sheet
	for _, b := range res.Buckets() {
		sheets = append(sheets, sheet{name: string(b.Disease), rows: planRows(b.Plans)})
	}
	if opts.IncludeCompliance {
		sheets = append(sheets, sheet{name: ComplianceSheet, rows: complianceRows(res.Plans)})
	}
	sheets = append(sheets, sheet{name: TargetsSheet, rows: targetRows(res)})

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.name, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", s.name, r+1, err)
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func planRows(plans []mealplan.Plan) [][]any {
	head := []any{colResidentID, "질환", colCategory, colMenu, colDisease}
	for _, c := range catalog.Columns {
		head = append(head, c.Header)
	}
	rows := [][]any{head}
	for _, p := range plans {
		for _, e := range p.Rows {
			row := []any{p.ResidentID, string(p.Disease), string(e.Category), e.Menu, e.Disease}
			for _, c := range catalog.Columns {
				v, _ := e.Nutrients.Get(c.Nutrient)
				row = append(row, round1(v))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func complianceRows(plans []mealplan.Plan) [][]any {
	head := []any{colResidentID, "질환목록", "기준"}
	for _, c := range catalog.Columns {
		if c.Nutrient == catalog.Weight {
			continue
		}
		head = append(head, c.Header, string(c.Nutrient)+" 기준", string(c.Nutrient)+" 평가")
	}
	rows := [][]any{head}
	for _, p := range plans {
		row := []any{p.ResidentID, p.DiseaseSet, ""}
		if p.Compliance != nil {
			row[2] = p.Compliance.Key
			for _, it := range p.Compliance.Items {
				row = append(row, round1(it.Actual), it.Rule, string(it.Result))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func targetRows(res mealplan.Result) [][]any {
	head := []any{colResidentID, "질환", "결과"}
	for _, n := range mealplan.TargetNutrients {
		head = append(head, string(n)+" 목표")
	}
	head = append(head, "조정 배율", "조정 기준")
	rows := [][]any{head}

	plans := make(map[string]mealplan.Plan, len(res.Plans))
	for _, p := range res.Plans {
		if _, dup := plans[p.ResidentID]; !dup {
			plans[p.ResidentID] = p
		}
	}
	for _, rep := range res.Reports {
		row := []any{rep.ResidentID, string(rep.Disease), string(rep.Outcome)}
		p, ok := plans[rep.ResidentID]
		if !ok || rep.Outcome != mealplan.OutcomePlanned {
			rows = append(rows, row)
			continue
		}
		for _, n := range mealplan.TargetNutrients {
			row = append(row, p.Target.Text(n))
		}
		row = append(row, p.Adjustment.Factor, string(p.Adjustment.Nutrient))
		rows = append(rows, row)
	}
	return rows
}

func round1(v float64) float64 {
	if v < 0 {
		return -round1(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
