package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfvsync/dfvsync/pkg/version"
)

func releases(vs ...string) []Release {
	var rs []Release
	for _, v := range vs {
		rs = append(rs, Release{Version: version.MustParse(v), Tag: "v" + v, Name: "Release " + v})
	}
	return rs
}

func builds(vs ...string) []Build {
	var bs []Build
	for _, v := range vs {
		bs = append(bs, Build{Version: version.MustParse(v), Tag: v})
	}
	return bs
}

func versionStrings(rs []Release) []string {
	var res []string
	for _, v := range Versions(rs) {
		res = append(res, v.String())
	}
	return res
}

func TestReconcile_BaselineFilter(t *testing.T) {
	got := Reconcile(releases("1.9.0", "2.0.0", "2.0.1"), nil, version.MustParse("2.0.0"))
	assert.Equal(t, []string{"2.0.1"}, versionStrings(got))
}

func TestReconcile_BuildExclusion(t *testing.T) {
	got := Reconcile(releases("2.0.1", "2.1.0"), builds("2.0.1"), version.MustParse("2.0.0"))
	assert.Equal(t, []string{"2.1.0"}, versionStrings(got))
}

func TestReconcile_Ordering(t *testing.T) {
	got := Reconcile(releases("3.0.0", "1.0.0", "2.0.0"), nil, version.MustParse("0.0.0"))
	assert.Equal(t, []string{"1.0.0", "2.0.0", "3.0.0"}, versionStrings(got))
}

func TestReconcile_NumericNotLexicographic(t *testing.T) {
	got := Reconcile(releases("1.10", "2.0", "1.9"), nil, version.MustParse("1.8"))
	assert.Equal(t, []string{"1.9", "1.10", "2.0"}, versionStrings(got))

	got = Reconcile(releases("1.10", "1.9"), nil, version.MustParse("1.9"))
	assert.Equal(t, []string{"1.10"}, versionStrings(got))
}

func TestReconcile_Idempotent(t *testing.T) {
	rs := releases("1.0.0", "1.1.0", "2.0.0")
	got := Reconcile(rs, builds("2.0.0", "1.1.0", "1.0.0"), version.MustParse("0.1"))
	assert.Empty(t, got)
}

func TestReconcile_PaddedBuildVersions(t *testing.T) {
	// a build tagged "2.1" covers the release "2.1.0"
	got := Reconcile(releases("2.1.0", "2.2.0"), builds("2.1"), version.MustParse("2"))
	assert.Equal(t, []string{"2.2.0"}, versionStrings(got))
}

func TestReconcile_EmptyInputs(t *testing.T) {
	assert.Empty(t, Reconcile(nil, nil, version.MustParse("1.0")))
	assert.Empty(t, Reconcile(releases("0.9", "1.0"), nil, version.MustParse("1.0")))
}

func TestReconcile_TiesKeepInputOrder(t *testing.T) {
	rs := []Release{
		{Version: version.MustParse("2.0"), Tag: "v2.0"},
		{Version: version.MustParse("1.0"), Tag: "v1.0"},
		{Version: version.MustParse("2.0.0"), Tag: "release-2.0.0"},
	}
	got := Reconcile(rs, nil, version.MustParse("0"))
	require.Len(t, got, 3)
	assert.Equal(t, "v1.0", got[0].Tag)
	assert.Equal(t, "v2.0", got[1].Tag)
	assert.Equal(t, "release-2.0.0", got[2].Tag)
}

func TestReconcile_DoesNotModifyInput(t *testing.T) {
	rs := releases("3.0.0", "1.0.0")
	Reconcile(rs, nil, version.MustParse("0"))
	assert.Equal(t, []string{"3.0.0", "1.0.0"}, versionStrings(rs))
}

func TestFilterBuilds(t *testing.T) {
	bs := []Build{
		{Version: version.MustParse("1.0"), Tag: "1.0", Status: 10},
		{Version: version.MustParse("1.1"), Tag: "1.1", Status: -1},
		{Version: version.MustParse("1.2"), Tag: "1.2-rc1", Status: 10},
		{Version: version.MustParse("1.0.0"), Tag: "1.0.0", Status: 0},
		{Version: version.MustParse("1.3"), Tag: "1.3", Status: 0},
	}
	got := FilterBuilds(bs, []string{"latest", "*-rc*"})
	require.Len(t, got, 2)
	assert.Equal(t, "1.0", got[0].Tag, "first build of a version wins")
	assert.Equal(t, "1.3", got[1].Tag)
}

func TestIgnoredTag(t *testing.T) {
	assert.True(t, IgnoredTag("latest", DefaultIgnoreTags))
	assert.False(t, IgnoredTag("1.0", DefaultIgnoreTags))
	assert.False(t, IgnoredTag("latest", nil))
}

func TestConstraint(t *testing.T) {
	c, err := NewConstraint(">= 2.0, < 3")
	require.NoError(t, err)
	got := c.Filter(releases("1.9", "2.0", "2.5.1.7", "3.0"))
	assert.Equal(t, []string{"2.0", "2.5.1.7"}, versionStrings(got))

	none, err := NewConstraint("")
	require.NoError(t, err)
	assert.True(t, none.Allows(releases("0.0.1")[0]))
	assert.Len(t, none.Filter(releases("1", "2")), 2)

	_, err = NewConstraint("not a constraint")
	assert.Error(t, err)
}
