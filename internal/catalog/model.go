package catalog

import (
	"slices"

	"mealplan-backend/internal/residents"
)

// Category is a meal component slot.
type Category string

const (
	Rice   Category = "밥"
	Soup   Category = "국"
	Main   Category = "주찬"
	Side1  Category = "부찬1"
	Side2  Category = "부찬2"
	Kimchi Category = "김치"
)

// RequiredCategories is the fixed category order of a daily plan.
var RequiredCategories = []Category{Rice, Soup, Main, Side1, Side2, Kimchi}

// IsRequired reports whether c is one of the six plan categories.
func IsRequired(c Category) bool {
	return Rank(c) >= 0
}

// Rank returns the position of c in RequiredCategories, or -1.
func Rank(c Category) int {
	return slices.Index(RequiredCategories, c)
}

// Entry is one menu catalog row.
type Entry struct {
	Category  Category  `json:"category"`
	Menu      string    `json:"menu"`
	Disease   string    `json:"disease"`
	Nutrients Nutrients `json:"nutrients"`
}

// Tags returns the canonical disease tags of the entry.
func (e Entry) Tags() []string {
	return residents.Tokens(e.Disease)
}

// MatchesDisease reports whether d is one of the entry's disease tags.
func (e Entry) MatchesDisease(d residents.Disease) bool {
	return slices.Contains(e.Tags(), string(d))
}

// Catalog is the menu catalog in sheet order. Order is the tie-break when
// several rows of a category match a disease.
type Catalog []Entry

// Required drops rows whose category is not a plan category.
func (c Catalog) Required() Catalog {
	out := make(Catalog, 0, len(c))
	for _, e := range c {
		if IsRequired(e.Category) {
			out = append(out, e)
		}
	}
	return out
}
