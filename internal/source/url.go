package source

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/domain/regex"
)

var supportedDomains = map[string]bool{
	"youtube.com": true,
	"youtu.be":    true,
}

// ValidateURL checks that raw is an http(s) URL on a supported host and
// returns it normalized.
func ValidateURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", errs.ErrInvalidURL, raw, err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w %q: unsupported scheme %q", errs.ErrInvalidURL, raw, parsed.Scheme)
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return "", fmt.Errorf("%w %q: missing host", errs.ErrInvalidURL, raw)
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(hostname); err == nil {
		hostname = domain
	}
	if !supportedDomains[hostname] {
		return "", fmt.Errorf("%w %q: unsupported host %q", errs.ErrInvalidURL, raw, parsed.Hostname())
	}

	if hostname == "youtube.com" && parsed.Host != "www.youtube.com" {
		// music.youtube.com and m.youtube.com serve the same IDs.
		parsed.Host = "www.youtube.com"
	}
	parsed.Scheme = "https"
	return parsed.String(), nil
}

// IsPlaylist reports whether u points at a playlist page.
func IsPlaylist(u string) bool {
	return regex.PlaylistURLCompile().MatchString(u)
}

// WatchURL returns the watch page of a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
