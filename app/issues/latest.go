package issues

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/insights"
)

// Latest is the extract of the most recent issue
type Latest struct {
	Issue    int
	Entries  []bundle.Entry
	Showcase []bundle.ShowcaseEntry
	Since    time.Time
}

// ExtractLatest selects every entry of the highest issue and the showcase
// entries dated on or after the earliest of them. Skip flags are not
// consulted.
func ExtractLatest(entries []bundle.Entry, showcase []bundle.ShowcaseEntry) (*Latest, error) {
	issue, ok := latestIssue(entries)
	if !ok {
		return nil, ErrNoIssueNumbers
	}

	latest := &Latest{
		Issue:    issue,
		Entries:  []bundle.Entry{},
		Showcase: []bundle.ShowcaseEntry{},
	}

	found := false
	for _, e := range entries {
		if n, ok := e.Issue.Positive(); !ok || n != issue {
			continue
		}
		latest.Entries = append(latest.Entries, e)

		if d, ok := insights.ParseDate(e.Date); ok {
			if !found || d.Before(latest.Since) {
				latest.Since = d
				found = true
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("issue #%d: %w", issue, ErrNoValidDates)
	}

	for _, s := range showcase {
		d, ok := insights.ParseDate(s.Date)
		if !ok {
			continue
		}
		if !d.Before(latest.Since) {
			latest.Showcase = append(latest.Showcase, s)
		}
	}

	return latest, nil
}

// GenerateLatest writes the latest-issue extracts of both corpora. Nothing is
// written unless both extracts were computed.
func GenerateLatest(paths LatestPaths) (LatestResult, error) {
	entries, err := bundle.LoadEntries(paths.Bundle)
	if err != nil {
		return LatestResult{}, err
	}
	showcase, err := bundle.LoadShowcase(paths.Showcase)
	if err != nil {
		return LatestResult{}, err
	}

	latest, err := ExtractLatest(entries, showcase)
	if err != nil {
		return LatestResult{}, fmt.Errorf("failed to extract latest issue from %s: %w", paths.Bundle, err)
	}

	if err := bundle.WriteJSON(paths.BundleOutput, latest.Entries); err != nil {
		return LatestResult{}, fmt.Errorf("failed to write latest issue entries: %w", err)
	}
	if err := bundle.WriteJSON(paths.ShowcaseOutput, latest.Showcase); err != nil {
		return LatestResult{}, fmt.Errorf("failed to write latest showcase entries: %w", err)
	}

	result := LatestResult{
		LatestIssue:   latest.Issue,
		BundleCount:   len(latest.Entries),
		ShowcaseCount: len(latest.Showcase),
	}

	slog.Info("Latest issue data generated",
		"issue", result.LatestIssue,
		"entries", result.BundleCount,
		"showcase", result.ShowcaseCount)

	return result, nil
}
