package compliance

import (
	"sort"

	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/residents"
)

// Rules maps a nutrient to its raw rule text.
type Rules map[catalog.Nutrient]string

// Table is the nutrient standard table keyed by normalized disease set.
type Table map[string]Rules

// Add stores rules under the normalized form of diseaseSet. Later rows for
// the same key override earlier cells.
func (t Table) Add(diseaseSet string, rules Rules) {
	key := residents.SetKey(diseaseSet)
	existing, ok := t[key]
	if !ok {
		existing = make(Rules, len(rules))
		t[key] = existing
	}
	for n, text := range rules {
		existing[n] = text
	}
}

// Lookup returns the rules for a disease set. A miss yields an empty rule set.
func (t Table) Lookup(diseaseSet string) (Rules, bool) {
	rules, ok := t[residents.SetKey(diseaseSet)]
	if !ok {
		return Rules{}, false
	}
	return rules, true
}

// Keys returns the table keys sorted.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
