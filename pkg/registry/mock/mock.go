package mock

import (
	"context"

	"github.com/dfvsync/dfvsync/pkg/registry"
	"github.com/dfvsync/dfvsync/pkg/release"
)

// Registry returns canned builds, or an error.
type Registry struct {
	BuildList []release.Build
	Err       error
	Calls     int
}

func (m *Registry) Builds(context.Context) ([]release.Build, error) {
	m.Calls++
	return m.BuildList, m.Err
}

func (m *Registry) String() string {
	return "mock"
}

var _ registry.Registry = &Registry{}
