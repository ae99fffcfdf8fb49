package git

import (
	"regexp"
	"strings"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/jackmusick/gitsync/errors"
)

var (
	shorthandRe = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
	scpLikeRe   = regexp.MustCompile(`^git@([\w.-]+):([\w./-]+?)(\.git)?$`)
	sshURLRe    = regexp.MustCompile(`^ssh://(?:[\w.-]+@)?([\w.-]+)(?::\d+)?/([\w./-]+?)(\.git)?$`)
)

// NormalizeRemoteURL converts the accepted remote forms to a canonical
// token-authenticated HTTPS URL:
//
//   - "owner/repo" shorthand        → https://github.com/owner/repo.git
//   - git@host:owner/repo(.git)    → https://host/owner/repo.git
//   - ssh://git@host/owner/repo    → https://host/owner/repo.git
//   - http(s)://...                → unchanged
//
// SSH forms are accepted for detection only; all write operations use
// token-authenticated HTTPS. Anything else is an INVALID_INPUT error.
func NormalizeRemoteURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", errors.New(errors.CodeInvalidInput, "remote URL is required")
	}

	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return url, nil

	case shorthandRe.MatchString(url):
		return "https://github.com/" + url + ".git", nil

	default:
		if m := scpLikeRe.FindStringSubmatch(url); m != nil {
			return "https://" + m[1] + "/" + strings.TrimSuffix(m[2], ".git") + ".git", nil
		}
		if m := sshURLRe.FindStringSubmatch(url); m != nil {
			return "https://" + m[1] + "/" + strings.TrimSuffix(m[2], ".git") + ".git", nil
		}
		return "", errors.Newf(errors.CodeInvalidInput, "unsupported remote URL %q", raw)
	}
}

// TokenAuth creates HTTP basic authentication from a personal-access-token
// style string. GitHub accepts any non-empty username with a token password;
// "x-access-token" also satisfies installation tokens.
//
// Returns nil for an empty token, which go-git interprets as anonymous access.
func TokenAuth(token string) Auth {
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
