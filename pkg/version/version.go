// Package version models the dotted numeric versions found in
// release tags, image tags and tracked files.
package version

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidVersion = errors.New("invalid version")
	ErrBlankVersion   = errors.Wrap(ErrInvalidVersion, "blank version")
)

// tagRegexp finds a version in a free-form label: a run of
// dot-separated digit groups, at the start of the label, right after a
// `v`, or after a character that is neither a word character nor a
// dot, e.g., "v1.4.2", "Release 2.0", "build-3". A digit run that
// continues a word or a dotted run ("x1.2", "18.04") does not start a
// version.
var tagRegexp = regexp.MustCompile(`(?:^|[^\w.]|v)(\d+(?:\.\d+)*)`)

var strictRegexp = regexp.MustCompile(`^\d+(?:\.\d+)*$`)

// Version is a dotted numeric version. Components are held as decimal
// digit strings with leading zeros removed, so there is no upper bound
// on their size and comparison stays numeric.
//
// The zero value is the empty version, which compares equal to "0".
type Version struct {
	components []string
}

// Extract returns the first version found in label, and false if
// there is none.
func Extract(label string) (Version, bool) {
	m := tagRegexp.FindStringSubmatch(label)
	if m == nil {
		return Version{}, false
	}
	return fromDigits(strings.Split(m[1], ".")), true
}

// Parse parses s, which must consist of nothing but dot-separated
// digit groups.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrBlankVersion
	}
	if !strictRegexp.MatchString(s) {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "parsing %q", s)
	}
	return fromDigits(strings.Split(s, ".")), nil
}

// MustParse is like Parse but panics on error. It is meant for
// constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func fromDigits(parts []string) Version {
	components := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimLeft(p, "0")
		if p == "" {
			p = "0"
		}
		components[i] = p
	}
	return Version{components: components}
}

// String returns the normalized dotted form, e.g., "1.4.2". Leading
// zeros are dropped; trailing zero components are kept as written.
func (v Version) String() string {
	if len(v.components) == 0 {
		return "0"
	}
	return strings.Join(v.components, ".")
}

// Components returns a copy of the normalized components.
func (v Version) Components() []string {
	return append([]string(nil), v.components...)
}

// Key returns a string that is the same for all versions that are
// Equal, i.e., the normalized form with trailing zero components
// removed. It is suitable as a map key.
func (v Version) Key() string {
	n := len(v.components)
	for n > 1 && v.components[n-1] == "0" {
		n--
	}
	if n == 0 {
		return "0"
	}
	return strings.Join(v.components[:n], ".")
}

// Compare returns -1, 0 or 1 according to whether v is less than,
// equal to, or greater than other. The shorter version is padded
// with zeros.
func (v Version) Compare(other Version) int {
	n := len(v.components)
	if len(other.components) > n {
		n = len(other.components)
	}
	for i := 0; i < n; i++ {
		if c := compareComponent(v.component(i), other.component(i)); c != 0 {
			return c
		}
	}
	return 0
}

func (v Version) component(i int) string {
	if i < len(v.components) {
		return v.components[i]
	}
	return "0"
}

// compareComponent compares two normalized digit strings
// numerically: the longer one is bigger, otherwise the lexical
// order is the numeric order.
func compareComponent(a, b string) int {
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Sort sorts versions ascending. Equal versions keep their relative
// order.
func Sort(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Less(vs[j])
	})
}

// MarshalText renders the version in its normalized form.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a version strictly; see Parse.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
