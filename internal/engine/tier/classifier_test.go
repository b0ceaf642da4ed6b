package tier

import (
	"layercheck/internal/core/errors"
	"testing"
)

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Pattern: "a/b", Tier: 1},
		{Pattern: "a", Tier: 2},
	}

	got := Classify("x/a/b/y", rules)
	if !got.Classified || got.Tier != 1 || got.Pattern != "a/b" {
		t.Fatalf("expected tier 1 via a/b, got %+v", got)
	}

	got = Classify("x/a/c", rules)
	if !got.Classified || got.Tier != 2 || got.Pattern != "a" {
		t.Fatalf("expected tier 2 via a, got %+v", got)
	}
}

func TestClassify_Unclassified(t *testing.T) {
	t.Parallel()

	got := Classify("vendor/lib", []Rule{{Pattern: "cmd/", Tier: 1}})
	if got.Classified {
		t.Fatalf("expected unclassified, got %+v", got)
	}
	if got.Tier != 0 || got.Pattern != "" {
		t.Fatalf("expected zero assignment, got %+v", got)
	}
}

func TestClassify_SubstringMatchesInsideSegments(t *testing.T) {
	t.Parallel()

	got := Classify("internal/toolkit/cmd/helpers", []Rule{{Pattern: "cmd/", Tier: 1}})
	if !got.Classified || got.Tier != 1 {
		t.Fatalf("expected substring match inside unrelated segment, got %+v", got)
	}
}

func TestClassifier_MatchKinds(t *testing.T) {
	t.Parallel()

	opts := Options{Namespace: "github.com/acme/proj"}
	c, err := NewClassifier([]Rule{
		{Name: "CMD", Pattern: "cmd", Tier: 1, Match: MatchPrefix},
		{Name: "API", Pattern: "internal/*/api", Tier: 2, Match: MatchGlob},
		{Name: "CORE", Pattern: "internal/core/", Tier: 3},
	}, opts)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	cases := []struct {
		name     string
		path     string
		tier     int
		ruleName string
		ok       bool
	}{
		{name: "PrefixExact", path: "github.com/acme/proj/cmd", tier: 1, ruleName: "CMD", ok: true},
		{name: "PrefixNested", path: "github.com/acme/proj/cmd/tool", tier: 1, ruleName: "CMD", ok: true},
		{name: "PrefixNeighbor", path: "github.com/acme/proj/cmdline", ok: false},
		{name: "GlobOneSegment", path: "github.com/acme/proj/internal/users/api", tier: 2, ruleName: "API", ok: true},
		{name: "GlobStopsAtSeparator", path: "github.com/acme/proj/internal/a/b/api", ok: false},
		{name: "Substring", path: "github.com/acme/proj/internal/core/store", tier: 3, ruleName: "CORE", ok: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tc.path)
			if got.Classified != tc.ok {
				t.Fatalf("expected classified=%v, got %+v", tc.ok, got)
			}
			if tc.ok && (got.Tier != tc.tier || got.Name != tc.ruleName) {
				t.Fatalf("expected tier %d (%s), got %+v", tc.tier, tc.ruleName, got)
			}
		})
	}
}

func TestClassifier_DottedSeparator(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier([]Rule{
		{Pattern: "app.*.db", Tier: 3, Match: MatchGlob},
		{Pattern: "app.web", Tier: 1, Match: MatchPrefix},
	}, Options{Separator: "."})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	if got := c.Classify("app.orders.db"); !got.Classified || got.Tier != 3 {
		t.Fatalf("expected tier 3, got %+v", got)
	}
	if got := c.Classify("app.web.handlers"); !got.Classified || got.Tier != 1 {
		t.Fatalf("expected tier 1, got %+v", got)
	}
}

func TestNewClassifier_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		rules []Rule
	}{
		{name: "EmptyPattern", rules: []Rule{{Pattern: "  ", Tier: 1}}},
		{name: "BadGlob", rules: []Rule{{Pattern: "internal/[", Tier: 1, Match: MatchGlob}}},
		{name: "UnknownKind", rules: []Rule{{Pattern: "cmd", Tier: 1, Match: "regex"}}},
		{name: "BarePrefixSeparator", rules: []Rule{{Pattern: "/", Tier: 1, Match: MatchPrefix}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewClassifier(tc.rules, Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestClassifier_RulesAreCopied(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Pattern: "cmd/", Tier: 1}}
	c, err := NewClassifier(rules, Options{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	rules[0].Tier = 9

	if got := c.Classify("cmd/tool"); got.Tier != 1 {
		t.Fatalf("expected tier 1 after caller mutation, got %d", got.Tier)
	}
	out := c.Rules()
	out[0].Tier = 7
	if got := c.Classify("cmd/tool"); got.Tier != 1 {
		t.Fatalf("expected tier 1 after Rules() mutation, got %d", got.Tier)
	}
	if out[0].Match != MatchSubstring {
		t.Fatalf("expected default match kind, got %q", out[0].Match)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier([]Rule{{Pattern: "internal/", Tier: 2}}, Options{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	first := c.Classify("internal/x")
	for i := 0; i < 50; i++ {
		if got := c.Classify("internal/x"); got != first {
			t.Fatalf("classification changed at iteration %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestDistribution(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier([]Rule{
		{Name: "CMD", Pattern: "cmd/", Tier: 1},
		{Name: "COMMANDS", Pattern: "internal/commands/", Tier: 2},
		{Name: "HIGH_INTERNAL", Pattern: "internal/app/", Tier: 2},
	}, Options{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	groups, unclassified := c.Distribution([]string{
		"internal/commands/run", "cmd/tool", "internal/app/x", "pkg/lib",
	})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Tier != 1 || len(groups[0].Modules) != 1 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Tier != 2 || len(groups[1].Modules) != 2 || groups[1].Modules[0] != "internal/app/x" {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
	if len(groups[1].Names) != 2 || groups[1].Names[0] != "COMMANDS" {
		t.Fatalf("unexpected group names: %v", groups[1].Names)
	}
	if len(unclassified) != 1 || unclassified[0] != "pkg/lib" {
		t.Fatalf("unexpected unclassified: %v", unclassified)
	}
}

func TestParseMatchKind(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]MatchKind{"": MatchSubstring, "Prefix": MatchPrefix, " glob ": MatchGlob} {
		got, err := ParseMatchKind(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMatchKind(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseMatchKind("regex"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
