// Package git records new versions in the repository holding the
// tracked files: one commit and one annotated tag per version, pushed
// to the remote.
package git

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"

	"github.com/dfvsync/dfvsync/pkg/release"
)

const (
	DefaultRemote  = "origin"
	DefaultTimeout = 20 * time.Second
)

// Config holds the git settings of a Checkout.
type Config struct {
	Remote    string
	UserName  string
	UserEmail string
	Timeout   time.Duration
}

// Checkout is a git working copy holding the tracked files.
type Checkout struct {
	dir     string
	config  Config
	service string
	paths   []string
	logger  log.Logger
}

// NewCheckout returns a Checkout for the working copy at dir. service
// names the project in commit messages; paths are the tracked files,
// relative to dir or absolute.
func NewCheckout(dir, service string, paths []string, config Config, logger log.Logger) *Checkout {
	if config.Remote == "" {
		config.Remote = DefaultRemote
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Checkout{
		dir:     dir,
		config:  config,
		service: service,
		paths:   paths,
		logger:  logger,
	}
}

// TagName is the tag created for a version.
func TagName(r release.Release) string {
	return "v" + r.Version.String()
}

// CommitMessage is the message of the commit made for a version.
func (c *Checkout) CommitMessage(r release.Release) string {
	return fmt.Sprintf("Bumped %s version to %s", c.service, r.Version)
}

func (c *Checkout) cmdConfig() gitCmdConfig {
	return gitCmdConfig{dir: c.dir, timeout: c.config.Timeout}
}

// Publish commits the tracked files, which must already carry the
// version of r, tags the commit and pushes both to the remote.
func (c *Checkout) Publish(ctx context.Context, r release.Release) error {
	cfg := c.cmdConfig()
	for _, p := range c.paths {
		if err := add(ctx, cfg, p); err != nil {
			return err
		}
	}
	if c.config.UserEmail != "" {
		if err := config(ctx, cfg, "user.email", c.config.UserEmail); err != nil {
			return err
		}
	}
	if c.config.UserName != "" {
		if err := config(ctx, cfg, "user.name", c.config.UserName); err != nil {
			return err
		}
	}

	v := r.Version.String()
	if err := commit(ctx, cfg, c.CommitMessage(r)); err != nil {
		return CommitError(v, err)
	}
	name := TagName(r)
	if err := tag(ctx, cfg, name, "Release for version "+v); err != nil {
		return TagError(name, err)
	}
	if err := push(ctx, cfg, c.config.Remote, []string{"HEAD"}); err != nil {
		return c.pushError(ctx, err)
	}
	if err := pushTag(ctx, cfg, c.config.Remote, name); err != nil {
		return c.pushError(ctx, err)
	}

	rev, err := refRevision(ctx, cfg, "HEAD")
	if err != nil {
		rev = "unknown"
	}
	c.logger.Log("info", "published version", "version", v, "tag", name, "revision", rev)
	return nil
}

func (c *Checkout) pushError(ctx context.Context, actual error) error {
	u, err := remoteURL(ctx, c.cmdConfig(), c.config.Remote)
	if err != nil {
		u = ""
	}
	return PushError(c.config.Remote, u, actual)
}

func (c *Checkout) String() string {
	return c.dir
}
