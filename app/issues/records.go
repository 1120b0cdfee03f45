package issues

import (
	"fmt"
	"log/slog"

	"github.com/lysyi3m/bundle-desk/app/bundle"
)

// BuildRecords counts non-skipped blog posts, releases and sites per issue.
// Every issue from 1 to the highest seen gets a row, zero-filled when empty.
func BuildRecords(entries []bundle.Entry) ([]Record, error) {
	counts := map[int]*Record{}
	maxIssue := 0

	for _, e := range entries {
		if e.Skip {
			continue
		}
		n, ok := e.Issue.Positive()
		if !ok {
			continue
		}

		r, exists := counts[n]
		if !exists {
			r = &Record{Issue: n}
			counts[n] = r
		}
		if n > maxIssue {
			maxIssue = n
		}

		switch e.Type {
		case bundle.TypeBlogPost:
			r.BlogPosts++
		case bundle.TypeRelease:
			r.Releases++
		case bundle.TypeSite:
			r.Sites++
		}
	}

	if maxIssue == 0 {
		return nil, ErrNoIssueNumbers
	}

	records := make([]Record, 0, maxIssue)
	for i := 1; i <= maxIssue; i++ {
		if r, ok := counts[i]; ok {
			records = append(records, *r)
		} else {
			records = append(records, Record{Issue: i})
		}
	}
	return records, nil
}

// GenerateRecords reads the bundle corpus and writes issuerecords.json
func GenerateRecords(paths RecordsPaths) ([]Record, error) {
	entries, err := bundle.LoadEntries(paths.Bundle)
	if err != nil {
		return nil, err
	}

	records, err := BuildRecords(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build issue records from %s: %w", paths.Bundle, err)
	}

	if err := bundle.WriteJSON(paths.Output, records); err != nil {
		return nil, fmt.Errorf("failed to write issue records: %w", err)
	}

	slog.Info("Issue records generated", "output", paths.Output, "issues", len(records))
	return records, nil
}
