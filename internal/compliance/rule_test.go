package compliance

import "testing"

func TestParseRule(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
		want Rule
	}{
		{text: "≤2000", ok: true, want: Rule{Kind: KindUpper, Max: 2000, Inclusive: true}},
		{text: "<= 2,000", ok: true, want: Rule{Kind: KindUpper, Max: 2000, Inclusive: true}},
		{text: "<600", ok: true, want: Rule{Kind: KindUpper, Max: 600}},
		{text: "≥25", ok: true, want: Rule{Kind: KindLower, Min: 25, Inclusive: true}},
		{text: ">10", ok: true, want: Rule{Kind: KindLower, Min: 10}},
		{text: "500~700", ok: true, want: Rule{Kind: KindRange, Min: 500, Max: 700, Inclusive: true}},
		{text: "55% ~ 65%", ok: true, want: Rule{Kind: KindRange, Min: 55, Max: 65, Inclusive: true, Percent: true}},
		{text: "≤7%", ok: true, want: Rule{Kind: KindUpper, Max: 7, Inclusive: true, Percent: true}},
		{text: "2000 이하", ok: true, want: Rule{Kind: KindUpper, Max: 2000, Inclusive: true}},
		{text: "10미만", ok: true, want: Rule{Kind: KindUpper, Max: 10}},
		{text: "25 이상", ok: true, want: Rule{Kind: KindLower, Min: 25, Inclusive: true}},
		{text: "", ok: false},
		{text: "적정량", ok: false},
		{text: "≤", ok: false},
	}

	for _, tc := range cases {
		got, ok := ParseRule(tc.text)
		if ok != tc.ok {
			t.Fatalf("ParseRule(%q): expected ok=%v, got %v", tc.text, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseRule(%q): expected %+v, got %+v", tc.text, tc.want, got)
		}
	}
}

func TestRuleCheckBoundaries(t *testing.T) {
	upper, _ := ParseRule("≤2000")
	if !upper.Check(2000) || upper.Check(2000.1) {
		t.Fatalf("inclusive upper bound mismatch")
	}
	strict, _ := ParseRule("<2000")
	if strict.Check(2000) || !strict.Check(1999.9) {
		t.Fatalf("strict upper bound mismatch")
	}
	lower, _ := ParseRule("≥25")
	if !lower.Check(25) || lower.Check(24.9) {
		t.Fatalf("inclusive lower bound mismatch")
	}
	rng, _ := ParseRule("500~700")
	if !rng.Check(500) || !rng.Check(700) || rng.Check(499) || rng.Check(701) {
		t.Fatalf("range bound mismatch")
	}
}
