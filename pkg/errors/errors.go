package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an error with an explanation the user can act on. These
// are divided into a small number of categories, essentially
// distinguished by whose fault the error is; i.e., is this error:
//  - a problem with the configuration or tracked files, which won't
//    go away until the user fixes something?
//  - a problem with an upstream service or the git remote, which
//    might go away on the next run?
type Error struct {
	Type Type
	// a message that can be printed out for the user
	Help string `json:"help"`
	// the underlying error that can be e.g., logged for developers to look at
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Cause lets github.com/pkg/errors.Cause see through to the
// underlying error.
func (e *Error) Cause() error {
	return e.Err
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Type string

const (
	// Something went wrong talking to a provider or the git remote
	Server Type = "server"
	// The configuration or the tracked files need to be fixed
	User Type = "user"
)

// IsUser reports whether err, or any error it wraps, is an *Error
// of Type User.
func IsUser(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == User
}

// HelpFor returns the help text of the first *Error in err's chain,
// or the empty string.
func HelpFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Help
	}
	return ""
}

func CoverAllError(err error) *Error {
	return &Error{
		Type: Server,
		Err:  err,
		Help: fmt.Sprintf(`Error: %s

We don't have a specific help message for the error above.

Runs are safe to repeat: the next run works out again which releases
still need a build, from the upstream sources and the tracked files.
`, err.Error()),
	}
}

var ErrUnknownProvider = errors.New("unknown provider")

// UnknownProviderError is returned when the configuration names a
// provider we don't have an implementation for.
func UnknownProviderError(kind, name string, known []string) *Error {
	return &Error{
		Type: User,
		Err:  fmt.Errorf("%w: %s provider %q", ErrUnknownProvider, kind, name),
		Help: fmt.Sprintf(`Unknown %s provider %q

The configuration names a %s provider that is not supported. The
supported providers are:

    %s

Provider names are not case sensitive.
`, kind, name, kind, strings.Join(known, ", ")),
	}
}
