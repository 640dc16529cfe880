package mealplan

import "strings"

// SplitIDs splits free text on commas and newlines into trimmed,
// deduplicated identifiers, preserving first-seen order.
func SplitIDs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		id := strings.TrimSpace(f)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SearchResult holds the plans found for a query and the identifiers that
// matched no plan.
type SearchResult struct {
	Plans    []Plan   `json:"plans"`
	NotFound []string `json:"notFound"`
}

// Search looks up plans by resident identifier. Unknown identifiers are
// reported in NotFound rather than failing the query.
func (r Result) Search(ids []string) SearchResult {
	byID := make(map[string]Plan, len(r.Plans))
	for _, p := range r.Plans {
		if _, dup := byID[p.ResidentID]; !dup {
			byID[p.ResidentID] = p
		}
	}
	out := SearchResult{Plans: []Plan{}, NotFound: []string{}}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out.Plans = append(out.Plans, p)
			continue
		}
		out.NotFound = append(out.NotFound, id)
	}
	return out
}
