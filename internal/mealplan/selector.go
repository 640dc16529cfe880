package mealplan

import (
	"fmt"
	"sort"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/residents"
)

// SelectMenu picks one catalog row per required category for disease d. The
// first matching row of each category wins, so catalog order is a priority
// list. Rows come back in the fixed category order.
func SelectMenu(c catalog.Catalog, d residents.Disease) ([]catalog.Entry, error) {
	picked := make(map[catalog.Category]catalog.Entry, len(catalog.RequiredCategories))
	for _, e := range c {
		if !catalog.IsRequired(e.Category) || !e.MatchesDisease(d) {
			continue
		}
		if _, ok := picked[e.Category]; ok {
			continue
		}
		picked[e.Category] = e
	}

	out := make([]catalog.Entry, 0, len(catalog.RequiredCategories))
	var missing []catalog.Category
	for _, cat := range catalog.RequiredCategories {
		e, ok := picked[cat]
		if !ok {
			missing = append(missing, cat)
			continue
		}
		out = append(out, e)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: disease=%s categories=%v", ErrMissingCoverage, d, missing)
	}
	return out, nil
}

// Customize applies a texture policy and returns new rows sorted into the
// fixed category order. The input rows are not modified.
func Customize(rows []catalog.Entry, opt Option) []catalog.Entry {
	out := make([]catalog.Entry, len(rows))
	copy(out, rows)
	for i := range out {
		switch out[i].Category {
		case catalog.Rice:
			if repl, ok := opt.RiceSubstitution[out[i].Menu]; ok {
				out[i].Menu = repl
			}
		case catalog.Soup:
			out[i].Menu += opt.SoupSuffix
		case catalog.Main, catalog.Side1, catalog.Side2, catalog.Kimchi:
			out[i].Menu += opt.SideSuffix
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return catalog.Rank(out[i].Category) < catalog.Rank(out[j].Category)
	})
	return out
}
