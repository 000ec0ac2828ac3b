package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

func TestHelpFor_UserError(t *testing.T) {
	err := errors.Wrap(dfverr.UnknownProviderError("source", "gitlab", []string{"Github"}), "constructing source")
	assert.Contains(t, helpFor(err), `Unknown source provider "gitlab"`)
}

func TestHelpFor_UntypedError(t *testing.T) {
	err := errors.Wrap(errors.New("dial tcp: connection refused"), "fetching releases from Github")
	help := helpFor(err)
	assert.Contains(t, help, "connection refused")
	assert.Contains(t, help, "don't have a specific help message")
}
