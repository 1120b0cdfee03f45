package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lysyi3m/bundle-desk/app/bundle"
)

// EntryGrowthCSV renders the yearly rollup as "Year,Blog Posts,Sites" rows.
// A dashed site count is written as 0.
func EntryGrowthCSV(rows []YearRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "Year,Blog Posts,Sites")
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s,%d,%d", row.Year, row.BlogPosts, int(row.Sites)))
	}
	return strings.Join(lines, "\n")
}

// AuthorGrowthCSV renders the cumulative number of distinct blog post
// authors per year as "Year,Authors" rows.
func AuthorGrowthCSV(entries []bundle.Entry) string {
	byYear := map[int]map[string]struct{}{}
	for _, e := range entries {
		if e.Skip || e.Type != bundle.TypeBlogPost || e.Author == "" {
			continue
		}
		d, ok := ParseDate(e.Date)
		if !ok {
			continue
		}

		authors, ok := byYear[d.Year()]
		if !ok {
			authors = map[string]struct{}{}
			byYear[d.Year()] = authors
		}
		authors[e.Author] = struct{}{}
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	seen := map[string]struct{}{}
	lines := make([]string, 0, len(years)+1)
	lines = append(lines, "Year,Authors")
	for _, year := range years {
		for author := range byYear[year] {
			seen[author] = struct{}{}
		}
		lines = append(lines, fmt.Sprintf("%d,%d", year, len(seen)))
	}
	return strings.Join(lines, "\n")
}
