package semver

import "testing"

func TestParseVersionAcceptsLeadingV(t *testing.T) {
	v, err := ParseVersion("v14.17.0")
	if err != nil {
		t.Fatalf("ParseVersion error: %v", err)
	}
	if got := v.String(); got != "14.17.0" {
		t.Fatalf("expected 14.17.0, got %q", got)
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	if _, err := ParseVersion("not-a-version"); err == nil {
		t.Fatalf("expected error for invalid version")
	}
}

func TestIsVersion(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"14.17.0", true},
		{"v14.17.0", true},
		{"0.0.1", true},
		{">=14", false},
		{"^1.2.3", false},
		{"~2.0", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsVersion(tc.raw); got != tc.want {
			t.Fatalf("IsVersion(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSatisfies(t *testing.T) {
	cases := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"14.17.0", ">=14", true},
		{"14.17.0", "^14.0.0", true},
		{"14.17.0", "~14.17.0", true},
		{"14.17.0", ">=16", false},
		{"2.0.0", ">=1.2.0 <2.0.0", false},
		{"1.9.9", ">=1.2.0 <2.0.0", true},
	}
	for _, tc := range cases {
		v, err := ParseVersion(tc.version)
		if err != nil {
			t.Fatalf("parse version %q: %v", tc.version, err)
		}
		c, err := ParseConstraint(tc.constraint)
		if err != nil {
			t.Fatalf("parse constraint %q: %v", tc.constraint, err)
		}
		if got := Satisfies(v, c); got != tc.want {
			t.Fatalf("Satisfies(%q, %q) = %v, want %v", tc.version, tc.constraint, got, tc.want)
		}
	}
}

func TestCompareZeroVersionSortsLowest(t *testing.T) {
	v, err := ParseVersion("0.0.1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if Compare(Version{}, v) != -1 {
		t.Fatalf("expected zero version to sort below 0.0.1")
	}
	if Compare(v, Version{}) != 1 {
		t.Fatalf("expected 0.0.1 to sort above zero version")
	}
	if Compare(Version{}, Version{}) != 0 {
		t.Fatalf("expected two zero versions to compare equal")
	}
}

func TestMaxSatisfyingPicksHighest(t *testing.T) {
	c, err := ParseConstraint(">=14 <17")
	if err != nil {
		t.Fatalf("parse constraint: %v", err)
	}
	var candidates []Version
	for _, raw := range []string{"12.22.0", "16.3.0", "14.17.0", "18.0.0", "16.14.2"} {
		v, err := ParseVersion(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		candidates = append(candidates, v)
	}

	best, found := MaxSatisfying(c, candidates)
	if !found {
		t.Fatalf("expected a satisfying version")
	}
	if got := best.String(); got != "16.14.2" {
		t.Fatalf("expected 16.14.2, got %q", got)
	}
}

func TestMaxSatisfyingNoMatch(t *testing.T) {
	c, err := ParseConstraint(">=20")
	if err != nil {
		t.Fatalf("parse constraint: %v", err)
	}
	v, err := ParseVersion("14.17.0")
	if err != nil {
		t.Fatalf("parse version: %v", err)
	}
	if _, found := MaxSatisfying(c, []Version{v}); found {
		t.Fatalf("expected no satisfying version")
	}
}
