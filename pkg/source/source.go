// Package source fetches the releases published by the upstream
// project, from whichever code-hosting service it lives on.
package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-kit/kit/log"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
	"github.com/dfvsync/dfvsync/pkg/release"
	"github.com/dfvsync/dfvsync/pkg/version"
)

// DefaultTop is how many of the most recent releases are looked at.
const DefaultTop = 5

// Source lists the most recent releases of an upstream project.
type Source interface {
	// Releases returns the versioned releases among the top most
	// recent entries, in no particular order. Entries without a
	// version in their tag are left out.
	Releases(ctx context.Context, top int) ([]release.Release, error)
	// String names the provider, for logging.
	String() string
}

// Options are what any provider may need to construct a Source.
type Options struct {
	Username   string
	RepoName   string
	HTTPClient *http.Client
	// Token authenticates requests, if the provider supports it.
	Token string
	// BaseURL overrides the provider's API endpoint, e.g., for an
	// on-premises installation.
	BaseURL string
	Logger  log.Logger
}

type constructor func(Options) (Source, error)

var providers = map[string]constructor{
	GithubName: func(opts Options) (Source, error) { return NewGithub(opts) },
}

// Providers returns the names of the supported providers.
func Providers() []string {
	return []string{GithubName}
}

// New returns the Source for the named provider. Names are not case
// sensitive.
func New(provider string, opts Options) (Source, error) {
	for name, construct := range providers {
		if strings.EqualFold(name, provider) {
			return construct(opts)
		}
	}
	return nil, dfverr.UnknownProviderError("source", provider, Providers())
}

// entry is the provider-neutral shape of one upstream release.
type entry struct {
	tag, name, url, archiveURL string
}

// versioned turns raw entries into releases, skipping (with a
// warning) those without a version in their tag. When two entries
// have the same version, the first one wins.
func versioned(logger log.Logger, entries []entry) []release.Release {
	var (
		res  []release.Release
		seen = map[string]struct{}{}
	)
	for _, e := range entries {
		v, ok := version.Extract(e.tag)
		if !ok {
			logger.Log("warning", "cannot identify version from tag", "tag", e.tag)
			continue
		}
		if _, ok := seen[v.Key()]; ok {
			logger.Log("warning", "skipping release with duplicate version", "tag", e.tag, "version", v)
			continue
		}
		seen[v.Key()] = struct{}{}
		res = append(res, release.Release{
			Version:    v,
			Name:       e.name,
			URL:        e.url,
			Tag:        e.tag,
			ArchiveURL: e.archiveURL,
		})
	}
	return res
}
