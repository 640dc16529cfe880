package mealplan

import (
	"reflect"
	"strings"
	"testing"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/compliance"
	"mealplan-backend/internal/residents"
)

func pipelineCatalog() catalog.Catalog {
	n := func(energy, carb, protein, fat float64) catalog.Nutrients {
		return catalog.Nutrients{Weight: 100, Energy: energy, Carbohydrate: carb, Protein: protein, Fat: fat, Sodium: 150}
	}
	return catalog.Catalog{
		{Category: catalog.Kimchi, Menu: "배추김치", Disease: "당뇨,고혈압", Nutrients: n(10, 2, 1, 0)},
		{Category: "후식", Menu: "사과", Disease: "당뇨", Nutrients: n(50, 12, 0, 0)},
		{Category: catalog.Rice, Menu: "쌀밥", Disease: "당뇨,고혈압", Nutrients: n(300, 66, 5, 1)},
		{Category: catalog.Rice, Menu: "잡곡밥", Disease: "당뇨", Nutrients: n(290, 62, 6, 1)},
		{Category: catalog.Soup, Menu: "미역국", Disease: "당뇨,고혈압", Nutrients: n(40, 4, 3, 1)},
		{Category: catalog.Main, Menu: "닭볶음", Disease: "당뇨,고혈압", Nutrients: n(120, 6, 14, 5)},
		{Category: catalog.Side1, Menu: "시금치나물", Disease: "당뇨,고혈압", Nutrients: n(30, 4, 2, 1)},
		{Category: catalog.Side2, Menu: "두부조림", Disease: "당뇨", Nutrients: n(60, 3, 5, 3)},
	}
}

func body() residents.Body {
	return residents.Body{Sex: "여", Age: "82", WeightKg: "55", HeightCm: "155", Activity: "1"}
}

func pipelineResidents() []residents.Resident {
	return []residents.Resident{
		{ID: "R1", Flags: residents.Flags{Diabetes: true}, Body: body(), RiceType: RiceNormal, SideType: SideNormal},
		{ID: "R2", Flags: residents.Flags{Hypertension: true}, Body: body(), RiceType: RiceNormal, SideType: SideNormal},
		{ID: "R3", Body: body(), RiceType: RiceNormal, SideType: SideNormal},
		{ID: "R4", Flags: residents.Flags{Diabetes: true}, Body: body(), RiceType: RicePorridge, SideType: SideMinced},
		{ID: "R5", Flags: residents.Flags{Diabetes: true}, Body: residents.Body{Sex: "?", Age: "80", WeightKg: "60", HeightCm: "160", Activity: "1"}},
	}
}

func TestPipelineRunOutcomes(t *testing.T) {
	table := compliance.Table{}
	table.Add("당뇨", compliance.Rules{catalog.Energy: "≤2000", catalog.Sodium: "≤600"})

	res := NewPipeline(nil).Run(Input{
		Catalog:   pipelineCatalog(),
		Residents: pipelineResidents(),
		Standards: table,
	})

	wantOutcomes := map[string]Outcome{
		"R1": OutcomePlanned,
		"R2": OutcomeMissingCoverage,
		"R3": OutcomeUnclassified,
		"R4": OutcomePlanned,
		"R5": OutcomePlanned,
	}
	for _, rep := range res.Reports {
		if rep.Outcome != wantOutcomes[rep.ResidentID] {
			t.Fatalf("%s: expected %s, got %s", rep.ResidentID, wantOutcomes[rep.ResidentID], rep.Outcome)
		}
	}
	if res.Summary.Planned != 3 || res.Summary.TargetErrors != 1 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	if res.Summary.Skipped[OutcomeMissingCoverage] != 1 || res.Summary.Skipped[OutcomeUnclassified] != 1 {
		t.Fatalf("unexpected skipped counts %+v", res.Summary.Skipped)
	}
	if res.Summary.ByDisease[residents.DiseaseDiabetes] != 3 {
		t.Fatalf("expected 3 diabetes plans, got %+v", res.Summary.ByDisease)
	}
}

func TestPipelineDiabetesNormalTexture(t *testing.T) {
	res := NewPipeline(nil).Run(Input{Catalog: pipelineCatalog(), Residents: pipelineResidents()[:1]})
	if len(res.Plans) != 1 {
		t.Fatalf("expected one plan, got %d", len(res.Plans))
	}
	plan := res.Plans[0]
	if plan.Disease != residents.DiseaseDiabetes {
		t.Fatalf("expected diabetes, got %s", plan.Disease)
	}
	if !plan.Option.IsNoop() {
		t.Fatalf("expected no-op texture policy, got %+v", plan.Option)
	}
	wantMenus := []string{"쌀밥", "미역국", "닭볶음", "시금치나물", "두부조림", "배추김치"}
	var gotMenus []string
	var gotCats []catalog.Category
	for _, row := range plan.Rows {
		gotMenus = append(gotMenus, row.Menu)
		gotCats = append(gotCats, row.Category)
	}
	if !reflect.DeepEqual(gotMenus, wantMenus) {
		t.Fatalf("expected menus %v, got %v", wantMenus, gotMenus)
	}
	if !reflect.DeepEqual(gotCats, catalog.RequiredCategories) {
		t.Fatalf("expected fixed category order, got %v", gotCats)
	}
	if plan.Compliance != nil {
		t.Fatalf("expected no compliance report without a standards table")
	}
}

func TestPipelinePorridgeMincedTexture(t *testing.T) {
	res := NewPipeline(nil).Run(Input{Catalog: pipelineCatalog(), Residents: pipelineResidents()[3:4]})
	if len(res.Plans) != 1 {
		t.Fatalf("expected one plan, got %d", len(res.Plans))
	}
	rows := res.Plans[0].Rows
	if rows[0].Menu != "야채죽" {
		t.Fatalf("expected porridge substitution, got %q", rows[0].Menu)
	}
	if rows[1].Menu != "미역국_건더기잘게" {
		t.Fatalf("expected soup suffix, got %q", rows[1].Menu)
	}
	for _, row := range rows[2:] {
		if !strings.HasSuffix(row.Menu, "_다진찬") {
			t.Fatalf("%s: expected minced suffix, got %q", row.Category, row.Menu)
		}
	}
}

func TestPipelineTargetErrorNotAdjustedOrEvaluated(t *testing.T) {
	table := compliance.Table{}
	table.Add("당뇨", compliance.Rules{catalog.Energy: "≤2000"})

	res := NewPipeline(nil).Run(Input{Catalog: pipelineCatalog(), Residents: pipelineResidents()[4:], Standards: table})
	if len(res.Plans) != 1 {
		t.Fatalf("expected plan despite target error, got %d", len(res.Plans))
	}
	plan := res.Plans[0]
	if plan.Target.Valid() || plan.Target.Text(catalog.Energy) != TargetErrorText {
		t.Fatalf("expected error target, got %+v", plan.Target)
	}
	if plan.Adjustment.Applied || plan.Adjustment.Skipped != "target_error" {
		t.Fatalf("expected skipped adjustment, got %+v", plan.Adjustment)
	}
	if plan.Compliance != nil {
		t.Fatalf("expected compliance to be skipped for error targets")
	}
}

func TestResultBucketsAndSearch(t *testing.T) {
	res := NewPipeline(nil).Run(Input{Catalog: pipelineCatalog(), Residents: pipelineResidents()})

	buckets := res.Buckets()
	if len(buckets) != 1 || buckets[0].Disease != residents.DiseaseDiabetes || len(buckets[0].Plans) != 3 {
		t.Fatalf("unexpected buckets %+v", buckets)
	}

	found := res.Search(SplitIDs("R1, R4\nR9\r\n\n R1 ,R2"))
	if len(found.Plans) != 2 || found.Plans[0].ResidentID != "R1" || found.Plans[1].ResidentID != "R4" {
		t.Fatalf("unexpected plans %+v", found.Plans)
	}
	if !reflect.DeepEqual(found.NotFound, []string{"R9", "R2"}) {
		t.Fatalf("unexpected notFound %v", found.NotFound)
	}
}

func TestSplitIDs(t *testing.T) {
	got := SplitIDs(" A1 ,A2\n\nA3\r\nA1, ")
	want := []string{"A1", "A2", "A3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := SplitIDs("  "); len(got) != 0 {
		t.Fatalf("expected no ids, got %v", got)
	}
}
