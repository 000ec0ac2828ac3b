package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/dfvsync/dfvsync/pkg/http/client"
	"github.com/dfvsync/dfvsync/pkg/release"
)

const (
	DockerhubName = "Dockerhub"

	dockerhubBaseURL = "https://hub.docker.com"
	buildHistoryPath = "/v2/repositories/%s/%s/buildhistory/"
)

type dockerhub struct {
	client     *client.Client
	base       string
	username   string
	repoName   string
	ignoreTags []string
	logger     log.Logger
}

// NewDockerhub returns a Registry reading the automated build history
// of a Docker Hub repository.
func NewDockerhub(opts Options) Registry {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	base := opts.BaseURL
	if base == "" {
		base = dockerhubBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &dockerhub{
		client:     client.New(hc),
		base:       strings.TrimSuffix(base, "/"),
		username:   opts.Username,
		repoName:   opts.RepoName,
		ignoreTags: opts.IgnoreTags,
		logger:     logger,
	}
}

func (d *dockerhub) String() string {
	return DockerhubName
}

func (d *dockerhub) buildsURL() string {
	return d.base + fmt.Sprintf(buildHistoryPath, url.PathEscape(d.username), url.PathEscape(d.repoName))
}

type buildHistory struct {
	Results []struct {
		DockertagName string `json:"dockertag_name"`
		Status        int    `json:"status"`
	} `json:"results"`
}

func (d *dockerhub) Builds(ctx context.Context) ([]release.Build, error) {
	var history buildHistory
	if err := d.client.Get(ctx, &history, d.buildsURL()); err != nil {
		return nil, errors.Wrapf(err, "fetching build history of %s/%s", d.username, d.repoName)
	}
	entries := make([]entry, len(history.Results))
	for i, r := range history.Results {
		entries[i] = entry{tag: r.DockertagName, status: r.Status}
	}
	return versioned(d.logger, d.ignoreTags, entries), nil
}
