package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Constraint restricts which releases are considered at all, using
// semver range syntax, e.g., ">= 2.0, < 3". The zero value accepts
// everything.
type Constraint struct {
	pattern     string
	constraints *semver.Constraints
}

// NewConstraint parses pattern. An empty pattern gives a constraint
// that accepts everything.
func NewConstraint(pattern string) (Constraint, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return Constraint{}, nil
	}
	c, err := semver.NewConstraint(pattern)
	if err != nil {
		return Constraint{}, errors.Wrapf(err, "parsing version constraint %q", pattern)
	}
	return Constraint{pattern: pattern, constraints: c}, nil
}

func (c Constraint) String() string {
	return c.pattern
}

// Allows reports whether r satisfies the constraint. Only the first
// three version components take part in the check.
func (c Constraint) Allows(r Release) bool {
	if c.constraints == nil {
		return true
	}
	components := r.Version.Components()
	for len(components) < 3 {
		components = append(components, "0")
	}
	v, err := semver.NewVersion(strings.Join(components[:3], "."))
	if err != nil {
		// out of range for semver; only an unconstrained run can use it
		return false
	}
	return c.constraints.Check(v)
}

// Filter returns the releases that satisfy the constraint, keeping
// their order.
func (c Constraint) Filter(rs []Release) []Release {
	if c.constraints == nil {
		return rs
	}
	var res []Release
	for _, r := range rs {
		if c.Allows(r) {
			res = append(res, r)
		}
	}
	return res
}
