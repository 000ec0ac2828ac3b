// Package sync drives one run: it works out which upstream releases
// have no image yet and publishes each of them in turn.
package sync

import (
	"context"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/dfvsync/dfvsync/pkg/registry"
	"github.com/dfvsync/dfvsync/pkg/release"
	"github.com/dfvsync/dfvsync/pkg/source"
	"github.com/dfvsync/dfvsync/pkg/tracked"
	"github.com/dfvsync/dfvsync/pkg/version"
)

// Publisher records a release whose version has been written to the
// tracked files, e.g., by committing, tagging and pushing.
type Publisher interface {
	Publish(ctx context.Context, r release.Release) error
}

// Syncer holds everything a run needs.
type Syncer struct {
	Source     source.Source
	Registry   registry.Registry
	Files      []tracked.File
	Publisher  Publisher
	Top        int
	IgnoreTags []string
	Constraint release.Constraint
	DryRun     bool
	Logger     log.Logger
}

// Result describes what a run found and did.
type Result struct {
	Baseline  version.Version
	Releases  []release.Release
	Builds    []release.Build
	Pending   []release.Release
	Published []release.Release
}

// Run fetches releases and builds, reads the baseline from the tracked
// files and publishes every pending release, oldest first. The first
// failure stops the run; releases published before it stay published.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	var res Result
	logger := s.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	top := s.Top
	if top <= 0 {
		top = source.DefaultTop
	}

	releases, err := s.Source.Releases(ctx, top)
	if err != nil {
		return res, errors.Wrapf(err, "fetching releases from %s", s.Source)
	}
	res.Releases = releases
	logger.Log("info", "identified versioned releases", "count", len(releases), "source", s.Source)

	builds, err := s.Registry.Builds(ctx)
	if err != nil {
		return res, errors.Wrapf(err, "fetching builds from %s", s.Registry)
	}
	res.Builds = release.FilterBuilds(builds, s.IgnoreTags)
	logger.Log("info", "identified versioned builds", "count", len(res.Builds), "registry", s.Registry)

	baseline, err := tracked.ReadVersion(s.Files)
	if err != nil {
		return res, err
	}
	res.Baseline = baseline
	logger.Log("info", "tracked files are using version", "version", baseline)

	candidates := s.Constraint.Filter(releases)
	if dropped := len(releases) - len(candidates); dropped > 0 {
		logger.Log("info", "releases excluded by constraint", "count", dropped, "constraint", s.Constraint)
	}
	res.Pending = release.Reconcile(candidates, res.Builds, baseline)
	if len(res.Pending) == 0 {
		logger.Log("info", "docker builds are already up to date")
		return res, nil
	}
	logger.Log("info", "creating docker builds", "versions", joinVersions(res.Pending), "dry-run", s.DryRun)
	if s.DryRun {
		return res, nil
	}

	for _, r := range res.Pending {
		if err := s.publish(ctx, r); err != nil {
			return res, err
		}
		res.Published = append(res.Published, r)
	}
	return res, nil
}

func (s *Syncer) publish(ctx context.Context, r release.Release) (err error) {
	defer func() {
		if err == nil {
			releasesPublished.Add(1)
		}
	}()
	if err := tracked.WriteVersion(s.Files, r.Version); err != nil {
		return errors.Wrapf(err, "writing version %s", r.Version)
	}
	if err := s.Publisher.Publish(ctx, r); err != nil {
		return errors.Wrapf(err, "publishing version %s", r.Version)
	}
	return nil
}

func joinVersions(rs []release.Release) string {
	vs := make([]string, len(rs))
	for i, r := range rs {
		vs[i] = r.Version.String()
	}
	return strings.Join(vs, ", ")
}
