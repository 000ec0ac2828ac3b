package git

import (
	dfverr "github.com/dfvsync/dfvsync/pkg/errors"
)

func CommitError(version string, actual error) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  actual,
		Help: `Could not commit version ` + version + `

The tracked files were updated but git refused to commit them. Check
that the working directory is a git repository, that a commit author
is configured (or set git.userName and git.userEmail), and that the
tracked files are not ignored by git.
`,
	}
}

func TagError(tag string, actual error) error {
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  actual,
		Help: `Could not create the tag ` + tag + `

The version commit was made locally, but the tag could not be
created. Most likely a tag with this name already exists; delete it,
or reset the commit and try again.
`,
	}
}

func PushError(remote, remoteURL string, actual error) error {
	help := `Problem pushing to the git remote "` + remote + `".
`
	if remoteURL != "" {
		help += `
    ` + SafeURL(remoteURL) + `
`
	}
	help += `
The version commit and tag exist locally but did not reach the
remote.

If this has worked before, it most likely means a fast-forward push
was not possible. Pull, then try again.
`
	if isHTTP(remoteURL) {
		help += `
Git URLs starting with "http://" or "https://" need credentials, and
git will not prompt for them here. Configure a credential helper, or
use an SSH URL (of the form "user@host:path/to/repo").
`
	} else {
		help += `
If it has not worked before, this probably means that the SSH key in
use does not have write permission for the repository.
`
	}
	return &dfverr.Error{
		Type: dfverr.User,
		Err:  actual,
		Help: help,
	}
}
