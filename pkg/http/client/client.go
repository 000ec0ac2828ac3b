// Package client is a small JSON-over-HTTP client for the provider
// APIs. Every request carries the same timeout and user agent, and
// non-2xx responses come back as *httperror.APIError.
package client

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/dfvsync/dfvsync/pkg/http/httperror"
	"github.com/dfvsync/dfvsync/pkg/http/middleware"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "dfvsync"

	// how much of an error response body to keep in the error
	maxErrorBody = 4096
)

// Options configure the shared *http.Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// RPS, if positive, limits requests per second to each host.
	RPS    float64
	Burst  int
	Logger log.Logger
}

// NewHTTPClient returns an *http.Client with the timeout applied to
// every request, the user agent set, and (optionally) per-host rate
// limiting.
func NewHTTPClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	var transport http.RoundTripper = &userAgentTransport{
		userAgent: userAgent,
		next:      http.DefaultTransport,
	}
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiters := &middleware.RateLimiters{RPS: opts.RPS, Burst: burst, Logger: opts.Logger}
		transport = limiters.RoundTripper(transport)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}

type Client struct {
	client *http.Client
}

func New(c *http.Client) *Client {
	return &Client{client: c}
}

// Get executes a GET request for url and unmarshals the JSON
// response into dest.
func (c *Client) Get(ctx context.Context, dest interface{}, url string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "constructing request %s", url)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := c.executeRequest(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrapf(err, "decoding response from %s", url)
	}
	return nil
}

func (c *Client) executeRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNonAuthoritativeInfo:
		return resp, nil
	default:
		defer resp.Body.Close()
		body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, errors.Wrap(err, "reading response body of error")
		}
		return nil, &httperror.APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
}
