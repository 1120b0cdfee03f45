package bundle

// CorpusStats summarizes the non-skipped part of the corpus
type CorpusStats struct {
	TotalEntries  int            `json:"totalEntries"`
	SkippedCount  int            `json:"skippedEntries"`
	ByType        map[string]int `json:"byType"`
	Authors       int            `json:"authors"`
	Categories    int            `json:"categories"`
	ShowcaseTotal int            `json:"showcaseTotal"`
}

func ComputeStats(entries []Entry, showcase []ShowcaseEntry) CorpusStats {
	stats := CorpusStats{
		ByType:        map[string]int{},
		ShowcaseTotal: len(showcase),
	}

	authors := map[string]struct{}{}
	categories := map[string]struct{}{}

	for _, e := range entries {
		if e.Skip {
			stats.SkippedCount++
			continue
		}

		stats.TotalEntries++
		if e.Type != "" {
			stats.ByType[e.Type]++
		}
		if e.Author != "" {
			authors[e.Author] = struct{}{}
		}
		for _, c := range e.Categories {
			categories[c] = struct{}{}
		}
	}

	stats.Authors = len(authors)
	stats.Categories = len(categories)
	return stats
}
