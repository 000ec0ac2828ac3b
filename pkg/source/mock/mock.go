package mock

import (
	"context"

	"github.com/dfvsync/dfvsync/pkg/release"
	"github.com/dfvsync/dfvsync/pkg/source"
)

// Source returns canned releases, or an error. It honours top the way
// a real provider does.
type Source struct {
	ReleaseList []release.Release
	Err         error
	Top         int
}

func (m *Source) Releases(_ context.Context, top int) ([]release.Release, error) {
	m.Top = top
	if m.Err != nil {
		return nil, m.Err
	}
	rs := m.ReleaseList
	if top > 0 && len(rs) > top {
		rs = rs[:top]
	}
	return rs, nil
}

func (m *Source) String() string {
	return "mock"
}

var _ source.Source = &Source{}
