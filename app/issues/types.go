package issues

import (
	"errors"

	"github.com/lysyi3m/bundle-desk/app/bundle"
)

var (
	ErrNoIssueNumbers = errors.New("no valid issue numbers found")
	ErrNoValidDates   = errors.New("no valid dates found in latest issue entries")
)

// Record is the per-issue count row of issuerecords.json
type Record struct {
	Issue     int `json:"issue"`
	BlogPosts int `json:"blogPosts"`
	Releases  int `json:"releases"`
	Sites     int `json:"sites"`
}

// RecordsPaths locates the inputs and outputs of issue record generation
type RecordsPaths struct {
	Bundle string
	Output string
}

// LatestPaths locates the inputs and outputs of latest-issue extraction
type LatestPaths struct {
	Bundle         string
	Showcase       string
	BundleOutput   string
	ShowcaseOutput string
}

// LatestResult summarises a latest-issue extraction
type LatestResult struct {
	LatestIssue   int `json:"latestIssue"`
	BundleCount   int `json:"bundledbCount"`
	ShowcaseCount int `json:"showcaseCount"`
}

// Counts are the non-skipped entries of the latest issue by type
type Counts struct {
	IssueNumber int `json:"issue_number"`
	BlogPosts   int `json:"blog_posts"`
	Sites       int `json:"sites"`
	Releases    int `json:"releases"`
	Starters    int `json:"starters"`
}

// latestIssue is the highest valid issue number across all entries
func latestIssue(entries []bundle.Entry) (int, bool) {
	latest := 0
	for _, e := range entries {
		if n, ok := e.Issue.Positive(); ok && n > latest {
			latest = n
		}
	}
	return latest, latest > 0
}
