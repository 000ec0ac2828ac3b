// Package config holds the typed configuration of a run. It is loaded
// once, from a YAML file, the environment and command-line flags, and
// validated before anything else happens.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
	"github.com/dfvsync/dfvsync/pkg/release"
	"github.com/dfvsync/dfvsync/pkg/tracked"
)

const (
	DefaultPath = ".dfvsync.yaml"
	ConfigType  = "yaml"

	// TokenEnv is the environment variable holding the GitHub token.
	TokenEnv = "GITHUB_TOKEN"

	LogFormatFmt  = "fmt"
	LogFormatJSON = "json"
)

type Config struct {
	Source    SourceConfig  `mapstructure:"source"`
	Docker    DockerConfig  `mapstructure:"docker"`
	Files     []FileConfig  `mapstructure:"files"`
	Git       GitConfig     `mapstructure:"git"`
	HTTP      HTTPConfig    `mapstructure:"http"`
	LogFormat string        `mapstructure:"logFormat"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

type SourceConfig struct {
	Provider   string `mapstructure:"provider"`
	Username   string `mapstructure:"username"`
	RepoName   string `mapstructure:"repoName"`
	Top        int    `mapstructure:"top"`
	Constraint string `mapstructure:"constraint"`

	// BaseURL points at a GitHub Enterprise API.
	BaseURL string `mapstructure:"baseURL"`

	// Token is normally taken from GITHUB_TOKEN.
	Token string `mapstructure:"token"`
}

type DockerConfig struct {
	Provider   string   `mapstructure:"provider"`
	Username   string   `mapstructure:"username"`
	RepoName   string   `mapstructure:"repoName"`
	IgnoreTags []string `mapstructure:"ignoreTags"`
	BaseURL    string   `mapstructure:"baseURL"`
}

// FileConfig names a tracked file and the pattern locating its version.
// The pattern has exactly one capture group.
type FileConfig struct {
	Path    string `mapstructure:"path"`
	Pattern string `mapstructure:"pattern"`
}

type GitConfig struct {
	UserEmail string        `mapstructure:"userEmail"`
	UserName  string        `mapstructure:"userName"`
	Remote    string        `mapstructure:"remote"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
}

type MetricsConfig struct {
	PushGateway string `mapstructure:"pushGateway"`
}

// flagKeys maps command-line flags onto config keys they override.
var flagKeys = map[string]string{
	"log-format": "logFormat",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType(ConfigType)
	v.SetDefault("source.top", 5)
	v.SetDefault("docker.ignoreTags", release.DefaultIgnoreTags)
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.timeout", 20*time.Second)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.rps", 10)
	v.SetDefault("http.burst", 1)
	v.SetDefault("logFormat", LogFormatFmt)
	_ = v.BindEnv("source.token", TokenEnv)
	return v
}

// Load reads the config file at path, overlays the environment and any
// flags in fs that were set, and validates the result.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	var c Config
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return c, LoadError(path, errors.Wrap(err, "reading config file"))
	}
	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return c, errors.Wrapf(err, "binding flag --%s", flag)
				}
			}
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, LoadError(path, errors.Wrap(err, "decoding config file"))
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var problems []string
	require := func(value, key string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, key+" is required")
		}
	}
	require(c.Source.Provider, "source.provider")
	require(c.Source.Username, "source.username")
	require(c.Source.RepoName, "source.repoName")
	require(c.Docker.Provider, "docker.provider")
	require(c.Docker.Username, "docker.username")
	require(c.Docker.RepoName, "docker.repoName")

	if c.Source.Top < 0 {
		problems = append(problems, "source.top must not be negative")
	}
	if _, err := release.NewConstraint(c.Source.Constraint); err != nil {
		problems = append(problems, "source.constraint: "+errors.Cause(err).Error())
	}
	if len(c.Files) == 0 {
		problems = append(problems, "files must list at least one tracked file")
	}
	for i, f := range c.Files {
		if f.Path == "" {
			problems = append(problems, fmt.Sprintf("files[%d].path is required", i))
			continue
		}
		if _, err := tracked.NewFile(f.Path, f.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("files[%d].pattern: %s", i, errors.Cause(err)))
		}
	}
	if c.Git.Timeout < 0 {
		problems = append(problems, "git.timeout must not be negative")
	}
	if c.HTTP.Timeout < 0 {
		problems = append(problems, "http.timeout must not be negative")
	}
	if c.HTTP.RPS < 0 {
		problems = append(problems, "http.rps must not be negative")
	}
	switch c.LogFormat {
	case "", LogFormatFmt, LogFormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("logFormat must be %q or %q, not %q", LogFormatFmt, LogFormatJSON, c.LogFormat))
	}

	if len(problems) > 0 {
		return InvalidError(problems)
	}
	return nil
}

// TrackedFiles returns the configured files, in order.
func (c Config) TrackedFiles() ([]tracked.File, error) {
	files := make([]tracked.File, 0, len(c.Files))
	for _, fc := range c.Files {
		f, err := tracked.NewFile(fc.Path, fc.Pattern)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (c Config) Constraint() (release.Constraint, error) {
	return release.NewConstraint(c.Source.Constraint)
}

func LoadError(path string, actual error) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  actual,
		Help: `Could not load the configuration file

    ` + path + `

Check that the file exists (or pass another with --config) and that
it is valid YAML.
`,
	}
}

func InvalidError(problems []string) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; ")),
		Help: "The configuration has these problems:\n\n    " + strings.Join(problems, "\n    ") + "\n",
	}
}
