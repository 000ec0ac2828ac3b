package git

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/whilp/git-urls"
)

// SafeURL returns the remote URL with any password removed, so it can
// be shown to the user.
func SafeURL(raw string) string {
	u, err := giturls.Parse(raw)
	if err != nil {
		return fmt.Sprintf("<unparseable: %s>", raw)
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}

// isHTTP reports whether the remote is reached over HTTP(S), where
// git needs credentials it cannot prompt for.
func isHTTP(raw string) bool {
	u, err := giturls.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func remoteURL(ctx context.Context, cfg gitCmdConfig, remote string) (string, error) {
	out := &bytes.Buffer{}
	cfg.out = out
	if err := execGitCmd(ctx, []string{"remote", "get-url", remote}, cfg); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}
