package release

import (
	"sort"

	"github.com/dfvsync/dfvsync/pkg/version"
)

// Release is a tagged, versioned artifact published by the upstream
// source repository.
type Release struct {
	Version    version.Version
	Name       string
	URL        string
	Tag        string // the raw upstream label the version was extracted from
	ArchiveURL string
}

// Build records that a container image was built for a version.
type Build struct {
	Version version.Version
	Tag     string
	Status  int // negative means the build failed
}

// Failed reports whether the build provider considers the build a
// failure.
func (b Build) Failed() bool {
	return b.Status < 0
}

// Reconcile returns the releases that are newer than baseline and
// have not been built yet, in ascending version order. Releases with
// equal versions keep their relative input order. The inputs are not
// modified.
func Reconcile(releases []Release, builds []Build, baseline version.Version) []Release {
	sorted := make([]Release, len(releases))
	copy(sorted, releases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Version.Less(sorted[j].Version)
	})

	built := make(map[string]struct{}, len(builds))
	for _, b := range builds {
		built[b.Version.Key()] = struct{}{}
	}

	var pending []Release
	for _, r := range sorted {
		if r.Version.Compare(baseline) <= 0 {
			continue
		}
		if _, ok := built[r.Version.Key()]; ok {
			continue
		}
		pending = append(pending, r)
	}
	return pending
}

// Versions returns the versions of rs, in the same order.
func Versions(rs []Release) []version.Version {
	vs := make([]version.Version, len(rs))
	for i, r := range rs {
		vs[i] = r.Version
	}
	return vs
}
