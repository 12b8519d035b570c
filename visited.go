package sitemirror

import (
	"net/url"
	"strings"
)

// VisitedSet records which URLs have been claimed for processing.
// Implementations must be safe for concurrent use.
type VisitedSet interface {
	// TryClaim marks the canonical form of url as claimed.
	// Returns true only for the first caller; the membership test and the
	// insert happen in one critical section.
	TryClaim(url string) bool

	// Len returns the number of claimed URLs.
	Len() int
}

// CanonicalURL returns the form of rawURL used for deduplication.
// Scheme and host are lowercased and the fragment is dropped.
// Unparsable input is returned unchanged.
func CanonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
