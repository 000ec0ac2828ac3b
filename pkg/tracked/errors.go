package tracked

import (
	"fmt"

	"github.com/pkg/errors"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

var (
	ErrPatternNotMatched    = errors.New("pattern not matched")
	ErrInconsistentVersions = errors.New("inconsistent versions")
)

// PatternNotMatchedError is returned when the content of a tracked
// file does not contain what its pattern is looking for.
func PatternNotMatchedError(f File, reason string) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  errors.Wrapf(ErrPatternNotMatched, "%s: %s in %s", reason, f.Pattern, f.Path),
		Help: fmt.Sprintf(`Could not find the version in a tracked file

The pattern configured for

    %s

is

    %s

and its capturing group must match a dotted version number (e.g.,
1.4.2) somewhere in the file. Either the file has changed shape, or
the pattern needs to be adjusted in the configuration.
`, f.Path, f.Pattern),
	}
}

// InconsistentVersionsError is returned when two tracked files carry
// different versions. Nothing can be done automatically until they
// agree again.
func InconsistentVersionsError(a File, av string, b File, bv string) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  errors.Wrapf(ErrInconsistentVersions, "%s has %s but %s has %s", a.Path, av, b.Path, bv),
		Help: fmt.Sprintf(`The tracked files disagree about the current version

    %s: %s
    %s: %s

All tracked files must name the same version before new releases can
be picked up. Please fix them by hand and commit the result.
`, a.Path, av, b.Path, bv),
	}
}
