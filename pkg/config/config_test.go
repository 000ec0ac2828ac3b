package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

const fullConfig = `
source:
  provider: github
  username: owner
  repoName: project
  top: 3
  constraint: ">= 1.0, < 3"
docker:
  provider: Dockerhub
  username: owner
  repoName: project-docker
  ignoreTags: [latest, "*-rc*"]
files:
  - path: Dockerfile
    pattern: 'ENV VERSION (\S+)'
  - path: docs/README.md
    pattern: 'version ` + "`([^`]+)`" + `'
git:
  userEmail: bot@example.com
  userName: Bot
  timeout: 5s
http:
  timeout: 3s
  rps: 2.5
logFormat: json
metrics:
  pushGateway: http://pushgateway:9091
`

const minimalConfig = `
source:
  provider: github
  username: owner
  repoName: project
docker:
  provider: dockerhub
  username: owner
  repoName: project-docker
files:
  - path: Dockerfile
    pattern: 'ENV VERSION (\S+)'
`

func writeConfig(t *testing.T, content string) (string, func()) {
	dir, err := ioutil.TempDir(os.TempDir(), "dfvsync-config")
	require.NoError(t, err)
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path, func() { os.RemoveAll(dir) }
}

func TestLoad_Full(t *testing.T) {
	path, cleanup := writeConfig(t, fullConfig)
	defer cleanup()

	c, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "github", c.Source.Provider)
	assert.Equal(t, "project", c.Source.RepoName)
	assert.Equal(t, 3, c.Source.Top)
	assert.Equal(t, []string{"latest", "*-rc*"}, c.Docker.IgnoreTags)
	require.Len(t, c.Files, 2)
	assert.Equal(t, "docs/README.md", c.Files[1].Path)
	assert.Equal(t, "Bot", c.Git.UserName)
	assert.Equal(t, "origin", c.Git.Remote)
	assert.Equal(t, 5*time.Second, c.Git.Timeout)
	assert.Equal(t, 3*time.Second, c.HTTP.Timeout)
	assert.Equal(t, 2.5, c.HTTP.RPS)
	assert.Equal(t, LogFormatJSON, c.LogFormat)
	assert.Equal(t, "http://pushgateway:9091", c.Metrics.PushGateway)

	files, err := c.TrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile", files[0].Path)
	constraint, err := c.Constraint()
	require.NoError(t, err)
	assert.Equal(t, ">= 1.0, < 3", constraint.String())
}

func TestLoad_Defaults(t *testing.T) {
	path, cleanup := writeConfig(t, minimalConfig)
	defer cleanup()

	c, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Source.Top)
	assert.Equal(t, []string{"latest"}, c.Docker.IgnoreTags)
	assert.Equal(t, "origin", c.Git.Remote)
	assert.Equal(t, 20*time.Second, c.Git.Timeout)
	assert.Equal(t, 10*time.Second, c.HTTP.Timeout)
	assert.Equal(t, LogFormatFmt, c.LogFormat)
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	path, cleanup := writeConfig(t, minimalConfig)
	defer cleanup()
	os.Setenv(TokenEnv, "s3cr3t")
	defer os.Unsetenv(TokenEnv)

	c, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", c.Source.Token)
}

func TestLoad_FlagOverrides(t *testing.T) {
	path, cleanup := writeConfig(t, minimalConfig)
	defer cleanup()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-format", "", "")
	c, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, LogFormatFmt, c.LogFormat, "unset flag leaves the config alone")

	require.NoError(t, fs.Parse([]string{"--log-format", "json"}))
	c, err = Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, LogFormatJSON, c.LogFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "does-not-exist", DefaultPath), nil)
	require.Error(t, err)
	assert.True(t, dfverr.IsUser(err))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := Config{
		Source: SourceConfig{Provider: "github", Constraint: "nonsense"},
		Files: []FileConfig{
			{Path: "Dockerfile", Pattern: "no group"},
			{Pattern: "(x)"},
		},
		LogFormat: "xml",
	}
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, dfverr.IsUser(err))
	help := dfverr.HelpFor(err)
	for _, expected := range []string{
		"source.username is required",
		"source.repoName is required",
		"docker.provider is required",
		"source.constraint",
		"files[0].pattern",
		"files[1].path is required",
		`logFormat must be "fmt" or "json", not "xml"`,
	} {
		assert.Contains(t, help, expected)
	}
}

func TestValidate_NoFiles(t *testing.T) {
	c := Config{
		Source: SourceConfig{Provider: "github", Username: "o", RepoName: "r"},
		Docker: DockerConfig{Provider: "dockerhub", Username: "o", RepoName: "r"},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one tracked file")
}
