package main

// Generate a plan workbook offline:
//   go run ./cmd/mealplan -menu menu.xlsx -residents residents.xlsx -standards std.xlsx -out plan.xlsx

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/mealplan"
	"mealplan-backend/internal/workbook"
)

type options struct {
	menu      string
	residents string
	standards string
	out       string
	ids       string
	policy    string
}

func main() {
	var opts options
	flag.StringVar(&opts.menu, "menu", "", "menu catalog workbook (required)")
	flag.StringVar(&opts.residents, "residents", "", "resident table workbook (required)")
	flag.StringVar(&opts.standards, "standards", "", "nutrient standard workbook")
	flag.StringVar(&opts.out, "out", "./out/mealplan.xlsx", "output workbook path")
	flag.StringVar(&opts.ids, "ids", "", "comma separated resident ids to print")
	flag.StringVar(&opts.policy, "policy", "snap", "adjustment policy: snap or clamp")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mealplan: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer) error {
	if opts.menu == "" || opts.residents == "" {
		return fmt.Errorf("-menu and -residents are required")
	}
	policy, err := mealplan.PolicyByName(opts.policy)
	if err != nil {
		return err
	}

	var in mealplan.Input
	if err := readFile(opts.menu, func(r io.Reader) (err error) {
		in.Catalog, err = workbook.ReadMenu(r)
		return err
	}); err != nil {
		return err
	}
	if err := readFile(opts.residents, func(r io.Reader) (err error) {
		in.Residents, err = workbook.ReadResidents(r)
		return err
	}); err != nil {
		return err
	}
	if opts.standards != "" {
		if err := readFile(opts.standards, func(r io.Reader) (err error) {
			in.Standards, err = workbook.ReadStandards(r)
			return err
		}); err != nil {
			return err
		}
	}

	res := mealplan.NewPipeline(policy).Run(in)

	if err := os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := workbook.Write(f, res, workbook.Options{IncludeCompliance: in.Standards != nil}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	s := res.Summary
	fmt.Fprintf(stdout, "OK: wrote %s (residents=%d planned=%d unclassified=%d missing_coverage=%d target_errors=%d adjusted=%d)\n",
		opts.out, s.Residents, s.Planned,
		s.Skipped[mealplan.OutcomeUnclassified], s.Skipped[mealplan.OutcomeMissingCoverage],
		s.TargetErrors, s.Adjusted)

	if ids := mealplan.SplitIDs(opts.ids); len(ids) > 0 {
		found := res.Search(ids)
		for _, p := range found.Plans {
			fmt.Fprintf(stdout, "%s\t%s\tenergy %s\tfactor %.2f\n",
				p.ResidentID, p.Disease, p.Target.Text(catalog.Energy), p.Adjustment.Factor)
		}
		for _, id := range found.NotFound {
			fmt.Fprintf(stdout, "WARN: resident %s not found\n", id)
		}
	}
	return nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
