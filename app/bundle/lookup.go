package bundle

import (
	"strings"
)

// Sources reported by FindLink
const (
	SourceBundle   = "bundledb.json"
	SourceShowcase = "showcase-data.json"
)

// LinkMatch is an existing corpus record pointing at a looked-up URL
type LinkMatch struct {
	Source string `json:"source"`
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}

// NormalizeLink lowercases a link, drops trailing slashes and a leading
// www. host prefix, and assumes https when no scheme is given.
func NormalizeLink(link string) string {
	normalized := strings.TrimRight(strings.ToLower(strings.TrimSpace(link)), "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(normalized, scheme+"www.") {
			return scheme + strings.TrimPrefix(normalized, scheme+"www.")
		}
	}
	return normalized
}

// FindLink lists the bundle and showcase records whose link matches url.
// Skipped records are included so editors do not re-add them.
func FindLink(entries []Entry, showcase []ShowcaseEntry, url string) []LinkMatch {
	target := NormalizeLink(url)
	matches := []LinkMatch{}

	for _, e := range entries {
		if NormalizeLink(e.Link) == target {
			matches = append(matches, LinkMatch{Source: SourceBundle, Type: e.Type, Title: e.Title, Link: e.Link})
		}
	}
	for _, s := range showcase {
		if NormalizeLink(s.Link) == target {
			matches = append(matches, LinkMatch{Source: SourceShowcase, Title: s.Title, Link: s.Link})
		}
	}
	return matches
}
