package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

const (
	releasesJSON = `[
  {"tag_name": "v1.2.0", "name": "1.2.0", "tarball_url": "https://example.com/1.2.0.tar.gz"},
  {"tag_name": "v1.1.0", "name": "1.1.0"},
  {"tag_name": "v1.0.0", "name": "1.0.0"}
]`
	buildsJSON = `{"results": [
  {"dockertag_name": "latest", "status": 10},
  {"dockertag_name": "1.1.0", "status": 10},
  {"dockertag_name": "1.0.0", "status": 10}
]}`
)

func providers(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/project/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, releasesJSON)
	})
	mux.HandleFunc("/v2/repositories/owner/project-docker/buildhistory/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, buildsJSON)
	})
	return httptest.NewServer(mux)
}

func writeProject(t *testing.T, baseURL, sourceProvider string) (dir, dockerfile string, cleanup func()) {
	dir, err := ioutil.TempDir(os.TempDir(), "dfvsync-cmd")
	require.NoError(t, err)
	dockerfile = filepath.Join(dir, "Dockerfile")
	require.NoError(t, ioutil.WriteFile(dockerfile, []byte("FROM alpine\nENV VERSION 1.0.0\n"), 0644))
	conf := fmt.Sprintf(`
source:
  provider: %s
  username: owner
  repoName: project
  baseURL: %s
docker:
  provider: dockerhub
  username: owner
  repoName: project-docker
  baseURL: %s
files:
  - path: %s
    pattern: 'ENV VERSION (\S+)'
http:
  rps: 0
`, sourceProvider, baseURL, baseURL, dockerfile)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, ".dfvsync.yaml"), []byte(conf), 0644))
	return dir, dockerfile, func() { os.RemoveAll(dir) }
}

func TestRoot_DryRun(t *testing.T) {
	server := providers(t)
	defer server.Close()
	dir, dockerfile, cleanup := writeProject(t, server.URL, "github")
	defer cleanup()

	cmd := newRoot().Command()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", filepath.Join(dir, ".dfvsync.yaml"), "--dry-run", "--log-format", "json"})
	require.NoError(t, cmd.Execute())

	got, err := ioutil.ReadFile(dockerfile)
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine\nENV VERSION 1.0.0\n", string(got))
}

func TestRoot_UnknownProvider(t *testing.T) {
	server := providers(t)
	defer server.Close()
	dir, _, cleanup := writeProject(t, server.URL, "gitlab")
	defer cleanup()

	cmd := newRoot().Command()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", filepath.Join(dir, ".dfvsync.yaml"), "--dry-run"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, dfverr.IsUser(err))
	assert.Contains(t, dfverr.HelpFor(err), "gitlab")
}

func TestRoot_MissingConfig(t *testing.T) {
	cmd := newRoot().Command()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", filepath.Join(os.TempDir(), "no-such-dir", ".dfvsync.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, dfverr.IsUser(err))
}

func TestRoot_NoArgs(t *testing.T) {
	cmd := newRoot().Command()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})
	assert.Equal(t, errorWantedNoArgs, cmd.Execute())
}
