package compliance

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the shape of a parsed rule.
type Kind int

const (
	KindUpper Kind = iota + 1
	KindLower
	KindRange
)

// Rule is a parsed standard cell such as "≤2000", "≥25", "55~65" or
// "10%~20%". Percent rules compare a nutrient's share of total energy.
type Rule struct {
	Kind      Kind
	Min       float64
	Max       float64
	Inclusive bool
	Percent   bool
}

const num = `(\d+(?:\.\d+)?)`

var (
	rangePattern       = regexp.MustCompile(`^` + num + `(%?)~` + num + `(%?)$`)
	upperPattern       = regexp.MustCompile(`^(≤|<=|=<|<)` + num + `(%?)$`)
	lowerPattern       = regexp.MustCompile(`^(≥|>=|=>|>)` + num + `(%?)$`)
	upperSuffixPattern = regexp.MustCompile(`^` + num + `(%?)(이하|미만)$`)
	lowerSuffixPattern = regexp.MustCompile(`^` + num + `(%?)(이상|초과)$`)
)

// ParseRule parses rule text. Text with no recognized form reports false.
func ParseRule(text string) (Rule, bool) {
	s := normalizeRuleText(text)
	if s == "" {
		return Rule{}, false
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[3], 64)
		return Rule{Kind: KindRange, Min: lo, Max: hi, Inclusive: true, Percent: m[2] != "" || m[4] != ""}, true
	}
	if m := upperPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[2], 64)
		return Rule{Kind: KindUpper, Max: v, Inclusive: m[1] != "<", Percent: m[3] != ""}, true
	}
	if m := lowerPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[2], 64)
		return Rule{Kind: KindLower, Min: v, Inclusive: m[1] != ">", Percent: m[3] != ""}, true
	}
	if m := upperSuffixPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return Rule{Kind: KindUpper, Max: v, Inclusive: m[3] == "이하", Percent: m[2] != ""}, true
	}
	if m := lowerSuffixPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return Rule{Kind: KindLower, Min: v, Inclusive: m[3] == "이상", Percent: m[2] != ""}, true
	}
	return Rule{}, false
}

// Check reports whether v satisfies the rule.
func (r Rule) Check(v float64) bool {
	switch r.Kind {
	case KindUpper:
		if r.Inclusive {
			return v <= r.Max
		}
		return v < r.Max
	case KindLower:
		if r.Inclusive {
			return v >= r.Min
		}
		return v > r.Min
	case KindRange:
		return v >= r.Min && v <= r.Max
	}
	return false
}

func normalizeRuleText(text string) string {
	s := strings.TrimSpace(text)
	s = strings.NewReplacer(
		" ", "",
		",", "",
		"～", "~",
		"〜", "~",
		"-", "~",
		"％", "%",
		"＜", "<",
		"＞", ">",
	).Replace(s)
	return s
}
