// Package registry fetches the build history of the container image
// repository that is fed by the tracked files.
package registry

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-kit/kit/log"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
	"github.com/dfvsync/dfvsync/pkg/release"
	"github.com/dfvsync/dfvsync/pkg/version"
)

// Registry is a record of the images built for a repository.
type Registry interface {
	// Builds returns the versioned builds, including failed ones,
	// in no particular order. Builds whose tag is ignored or has no
	// version are left out.
	Builds(ctx context.Context) ([]release.Build, error)
	// String names the provider, for logging.
	String() string
}

// Options are what any provider may need to construct a Registry.
type Options struct {
	Username   string
	RepoName   string
	HTTPClient *http.Client
	// BaseURL overrides the provider's API endpoint.
	BaseURL string
	// IgnoreTags are globs for tags that never carry a version,
	// e.g., "latest".
	IgnoreTags []string
	Logger     log.Logger
}

type constructor func(Options) (Registry, error)

var providers = map[string]constructor{
	DockerhubName: func(opts Options) (Registry, error) { return NewDockerhub(opts), nil },
}

// Providers returns the names of the supported providers.
func Providers() []string {
	return []string{DockerhubName}
}

// New returns the Registry for the named provider. Names are not
// case sensitive.
func New(provider string, opts Options) (Registry, error) {
	for name, construct := range providers {
		if strings.EqualFold(name, provider) {
			return construct(opts)
		}
	}
	return nil, dfverr.UnknownProviderError("docker", provider, Providers())
}

// entry is the provider-neutral shape of one build history record.
type entry struct {
	tag    string
	status int
}

// versioned turns raw entries into builds. Ignored tags are dropped
// quietly; tags without a version are dropped with a warning.
func versioned(logger log.Logger, ignore []string, entries []entry) []release.Build {
	var res []release.Build
	for _, e := range entries {
		if release.IgnoredTag(e.tag, ignore) {
			continue
		}
		v, ok := version.Extract(e.tag)
		if !ok {
			logger.Log("warning", "cannot identify version from tag", "tag", e.tag)
			continue
		}
		res = append(res, release.Build{Version: v, Tag: e.tag, Status: e.status})
	}
	return res
}
