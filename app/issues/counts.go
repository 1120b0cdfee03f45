package issues

import (
	"github.com/lysyi3m/bundle-desk/app/bundle"
)

// CountLatest tallies the non-skipped entries of the latest issue by type
func CountLatest(entries []bundle.Entry) (Counts, error) {
	issue, ok := latestIssue(entries)
	if !ok {
		return Counts{}, ErrNoIssueNumbers
	}

	counts := Counts{IssueNumber: issue}
	for _, e := range entries {
		if e.Skip {
			continue
		}
		if n, ok := e.Issue.Positive(); !ok || n != issue {
			continue
		}

		switch e.Type {
		case bundle.TypeBlogPost:
			counts.BlogPosts++
		case bundle.TypeSite:
			counts.Sites++
		case bundle.TypeRelease:
			counts.Releases++
		case bundle.TypeStarter:
			counts.Starters++
		}
	}
	return counts, nil
}

// LatestCounts reads the bundle corpus and counts its latest issue
func LatestCounts(bundlePath string) (Counts, error) {
	entries, err := bundle.LoadEntries(bundlePath)
	if err != nil {
		return Counts{}, err
	}
	return CountLatest(entries)
}
