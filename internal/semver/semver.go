// Package semver wraps github.com/Masterminds/semver/v3 with the small
// surface version resolution needs: parsing, constraint satisfaction, and
// picking the best candidate.
package semver

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed semantic version.
type Version struct {
	v *mm.Version
}

// Constraint is a parsed version constraint, either an exact tag or a range
// expression such as ">=1.2.0 <2.0.0", "^1.0.0", or "~1.4".
type Constraint struct {
	c *mm.Constraints
}

// ParseVersion parses raw as a semantic version. A leading "v" is accepted.
func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// ParseConstraint parses raw as a version constraint.
func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

// IsVersion reports whether raw parses as a plain semantic version rather
// than a range expression.
func IsVersion(raw string) bool {
	_, err := mm.StrictNewVersion(trimV(raw))
	return err == nil
}

// String returns the canonical form of v, without a "v" prefix.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Satisfies reports whether v satisfies c.
func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than b.
// A zero Version sorts below any parsed version.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// MaxSatisfying returns the highest candidate satisfying c, if any.
func MaxSatisfying(c Constraint, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !Satisfies(candidate, c) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// trimV strips a single leading "v" or "V".
func trimV(raw string) string {
	if len(raw) > 0 && (raw[0] == 'v' || raw[0] == 'V') {
		return raw[1:]
	}
	return raw
}
