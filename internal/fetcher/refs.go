package fetcher

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidRepoRef = errors.New("ugyldig repo-referanse")

// ParseRepoRef godtar owner/name, https-URL-er og git@-adresser.
func ParseRepoRef(ref string) (owner, name string, err error) {
	s := strings.TrimSpace(ref)

	switch {
	case strings.HasPrefix(s, "git@"):
		_, path, ok := strings.Cut(s, ":")
		if !ok {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoRef, ref)
		}
		s = path
	case strings.Contains(s, "://"):
		u, perr := url.Parse(s)
		if perr != nil || u.Host == "" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoRef, ref)
		}
		s = u.Path
	}

	s = strings.Trim(s, "/")
	s = strings.TrimSuffix(s, ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoRef, ref)
	}
	return parts[0], parts[1], nil
}
