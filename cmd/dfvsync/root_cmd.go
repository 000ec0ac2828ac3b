package main

import (
	"context"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	"github.com/dfvsync/dfvsync/pkg/config"
	"github.com/dfvsync/dfvsync/pkg/git"
	"github.com/dfvsync/dfvsync/pkg/http/client"
	"github.com/dfvsync/dfvsync/pkg/metrics"
	"github.com/dfvsync/dfvsync/pkg/registry"
	"github.com/dfvsync/dfvsync/pkg/source"
	"github.com/dfvsync/dfvsync/pkg/sync"
	"github.com/dfvsync/dfvsync/pkg/tracked"
)

type rootOpts struct {
	configPath string
	dryRun     bool
	logFormat  string
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
dfvsync keeps the version in a Dockerfile repository in step with the
releases of an upstream project.

For every upstream release that is newer than the version in the
tracked files and has no image build yet, it rewrites the tracked
files, commits, tags the commit v<version> and pushes.

Run it from the root of the Dockerfile repository, next to its
.dfvsync.yaml.
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dfvsync",
		Long:         rootLongHelp,
		SilenceUsage: true,
		RunE:         opts.RunE,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the configuration file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "only log the versions that would be published")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", `log format, "fmt" or "json"; overrides logFormat in the config file`)
	return cmd
}

func newLogger(format string) log.Logger {
	var logger log.Logger
	switch format {
	case config.LogFormatJSON:
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	default:
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)
	return logger
}

func (opts *rootOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	conf, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(conf.LogFormat)

	syncer, err := opts.syncer(conf, logger)
	if err != nil {
		return err
	}
	res, err := syncer.Run(context.Background())
	if err == nil {
		logger.Log("info", "run complete", "pending", len(res.Pending), "published", len(res.Published))
	}

	if conf.Metrics.PushGateway != "" {
		if perr := metrics.Push(conf.Metrics.PushGateway, conf.Source.RepoName); perr != nil {
			logger.Log("warning", "could not push metrics", "err", perr)
		}
	}
	return err
}

// syncer wires the providers, tracked files and git checkout described
// by conf into a sync.Syncer.
func (opts *rootOpts) syncer(conf config.Config, logger log.Logger) (*sync.Syncer, error) {
	httpClient := client.NewHTTPClient(client.Options{
		Timeout:   conf.HTTP.Timeout,
		UserAgent: "dfvsync/" + versionOrUnversioned(),
		RPS:       conf.HTTP.RPS,
		Burst:     conf.HTTP.Burst,
		Logger:    log.With(logger, "component", "http"),
	})

	src, err := source.New(conf.Source.Provider, source.Options{
		Username:   conf.Source.Username,
		RepoName:   conf.Source.RepoName,
		HTTPClient: httpClient,
		Token:      conf.Source.Token,
		BaseURL:    conf.Source.BaseURL,
		Logger:     log.With(logger, "component", "source"),
	})
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(conf.Docker.Provider, registry.Options{
		Username:   conf.Docker.Username,
		RepoName:   conf.Docker.RepoName,
		HTTPClient: httpClient,
		BaseURL:    conf.Docker.BaseURL,
		IgnoreTags: conf.Docker.IgnoreTags,
		Logger:     log.With(logger, "component", "registry"),
	})
	if err != nil {
		return nil, err
	}

	files, err := conf.TrackedFiles()
	if err != nil {
		return nil, err
	}
	constraint, err := conf.Constraint()
	if err != nil {
		return nil, err
	}

	checkout := git.NewCheckout("", conf.Source.RepoName, tracked.Paths(files), git.Config{
		Remote:    conf.Git.Remote,
		UserName:  conf.Git.UserName,
		UserEmail: conf.Git.UserEmail,
		Timeout:   conf.Git.Timeout,
	}, log.With(logger, "component", "git"))

	return &sync.Syncer{
		Source:     source.Instrument(src),
		Registry:   registry.NewInstrumentedRegistry(reg),
		Files:      files,
		Publisher:  checkout,
		Top:        conf.Source.Top,
		IgnoreTags: conf.Docker.IgnoreTags,
		Constraint: constraint,
		DryRun:     opts.dryRun,
		Logger:     log.With(logger, "component", "sync"),
	}, nil
}
