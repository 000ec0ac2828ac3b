package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeURL(t *testing.T) {
	const password = "s3cr3t"
	for _, raw := range []string{
		"https://user:" + password + "@github.com/owner/project.git",
		"ssh://git:" + password + "@github.com/owner/project.git",
	} {
		safe := SafeURL(raw)
		assert.NotContains(t, safe, password)
		assert.Contains(t, safe, "github.com/owner/project.git")
	}
	assert.Equal(t, "ssh://git@github.com/owner/project.git", SafeURL("git@github.com:owner/project.git"))
}

func TestIsHTTP(t *testing.T) {
	assert.True(t, isHTTP("https://github.com/owner/project.git"))
	assert.True(t, isHTTP("http://git.example.com/project"))
	assert.False(t, isHTTP("git@github.com:owner/project.git"))
	assert.False(t, isHTTP("/srv/git/project.git"))
}
