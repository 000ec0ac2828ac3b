package release

import (
	"github.com/ryanuber/go-glob"
)

// DefaultIgnoreTags are the build tags that never name a version.
var DefaultIgnoreTags = []string{"latest"}

// FilterBuilds drops builds that failed or whose tag matches one of
// the ignore globs, and keeps only the first build seen for each
// version.
func FilterBuilds(builds []Build, ignore []string) []Build {
	var (
		res  []Build
		seen = map[string]struct{}{}
	)
	for _, b := range builds {
		if b.Failed() || IgnoredTag(b.Tag, ignore) {
			continue
		}
		key := b.Version.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, b)
	}
	return res
}

// IgnoredTag reports whether tag matches any of the glob patterns.
func IgnoredTag(tag string, patterns []string) bool {
	for _, p := range patterns {
		if glob.Glob(p, tag) {
			return true
		}
	}
	return false
}
