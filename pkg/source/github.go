package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/kit/log"
	gh "github.com/google/go-github/v28/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/dfvsync/dfvsync/pkg/http/httperror"
	"github.com/dfvsync/dfvsync/pkg/release"
)

const GithubName = "Github"

var (
	errUnauthorized = httperror.APIError{
		Body: "Unable to list releases. Permission denied. Check the token in GITHUB_TOKEN.",
	}
	errNotFound = httperror.APIError{
		Body: "Cannot find owner or repository. Check spelling.",
	}
	errRateLimited = httperror.APIError{
		Body: "GitHub API rate limit exceeded. Set GITHUB_TOKEN to raise the limit.",
	}
	errGeneric = httperror.APIError{
		Body: "Unable to list releases.",
	}
)

type github struct {
	client   *gh.Client
	owner    string
	repoName string
	logger   log.Logger
}

// NewGithub returns a Source for a GitHub repository. If a token is
// given it is sent with every request, which raises the API rate
// limit and allows private repositories.
func NewGithub(opts Options) (Source, error) {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	if opts.Token != "" {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc = &http.Client{
			Timeout: hc.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
				Base:   base,
			},
		}
	}
	client := gh.NewClient(hc)
	if opts.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "parsing GitHub API URL %q", opts.BaseURL)
		}
		client.BaseURL = u
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &github{
		client:   client,
		owner:    opts.Username,
		repoName: opts.RepoName,
		logger:   logger,
	}, nil
}

func (g *github) String() string {
	return GithubName
}

// Releases lists the repository's releases, most recent first, in a
// single request for the first page of top entries.
func (g *github) Releases(ctx context.Context, top int) ([]release.Release, error) {
	if top <= 0 {
		top = DefaultTop
	}
	rels, resp, err := g.client.Repositories.ListReleases(ctx, g.owner, g.repoName, &gh.ListOptions{PerPage: top})
	if err != nil {
		return nil, errors.Wrapf(parseError(resp, err), "listing releases of %s/%s", g.owner, g.repoName)
	}
	if len(rels) > top {
		rels = rels[:top]
	}
	entries := make([]entry, len(rels))
	for i, r := range rels {
		entries[i] = entry{
			tag:        r.GetTagName(),
			name:       r.GetName(),
			url:        r.GetURL(),
			archiveURL: r.GetTarballURL(),
		}
	}
	return versioned(g.logger, entries), nil
}

func populateError(err httperror.APIError, resp *gh.Response) *httperror.APIError {
	err.StatusCode = resp.StatusCode
	err.Status = resp.Status
	return &err
}

func parseError(resp *gh.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}
	if _, ok := err.(*gh.RateLimitError); ok {
		return populateError(errRateLimited, resp)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return populateError(errUnauthorized, resp)
	case http.StatusNotFound:
		return populateError(errNotFound, resp)
	default:
		e := populateError(errGeneric, resp)
		e.Body = fmt.Sprintf("%s - %s", e.Body, err.Error())
		return e
	}
}
