package crawl

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize canonicalizes a user-supplied site reference into an absolute
// URL, applying https when no scheme was given and trimming trailing slashes.
// This is the only place in the analyzer that produces a terminal error: a
// structurally invalid URL cannot be scored at all.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty website URL")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	s = strings.TrimRight(s, "/")

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid website URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid website URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", fmt.Errorf("invalid website URL %q: missing host", raw)
	}
	return s, nil
}

// Origin derives the scheme://host origin from a normalized URL.
func Origin(normalized string) (string, error) {
	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", normalized, err)
	}
	return u.Scheme + "://" + u.Host, nil
}
