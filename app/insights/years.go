package insights

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lysyi3m/bundle-desk/app/bundle"
)

// Placeholder rendered instead of a zero count
const dash = "—"

// DashCount renders as the em-dash placeholder when zero
type DashCount int

func (c DashCount) MarshalJSON() ([]byte, error) {
	if c == 0 {
		return []byte(`"` + dash + `"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

func (c DashCount) String() string {
	if c == 0 {
		return dash
	}
	return strconv.Itoa(int(c))
}

// SiteJump is the one-time site count correction for sites present in the
// showcase but missing from the bundle.
type SiteJump struct {
	Month  string `json:"month"`
	Amount int    `json:"amount"`
}

// ComputeSiteJump counts non-skipped showcase entries whose link is not a
// link of any non-skipped bundle entry.
func ComputeSiteJump(entries []bundle.Entry, showcase []bundle.ShowcaseEntry, month string) SiteJump {
	links := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.Skip {
			links[e.Link] = struct{}{}
		}
	}

	amount := 0
	for _, s := range showcase {
		if s.Skip {
			continue
		}
		if _, ok := links[s.Link]; !ok {
			amount++
		}
	}

	return SiteJump{Month: month, Amount: amount}
}

// YearRow is one cumulative row of the yearly rollup
type YearRow struct {
	Year            string    `json:"year"`
	BlogPosts       int       `json:"blogPosts"`
	BlogPostsGrowth DashCount `json:"blogPostsGrowth"`
	Sites           DashCount `json:"sites"`
	SitesGrowth     DashCount `json:"sitesGrowth"`
}

type yearCount struct {
	blogPosts int
	sites     int
}

// ComputeEntriesByYear accumulates blog posts and sites per calendar year.
// The site jump is added once to the year containing its month.
func ComputeEntriesByYear(entries []bundle.Entry, jump SiteJump) []YearRow {
	counts := map[int]*yearCount{}
	for _, e := range entries {
		if e.Skip || (e.Type != bundle.TypeBlogPost && e.Type != bundle.TypeSite) {
			continue
		}
		d, ok := ParseDate(e.Date)
		if !ok {
			continue
		}

		c, ok := counts[d.Year()]
		if !ok {
			c = &yearCount{}
			counts[d.Year()] = c
		}
		if e.Type == bundle.TypeBlogPost {
			c.blogPosts++
		} else {
			c.sites++
		}
	}

	if jump.Amount > 0 && jump.Month != "" {
		if year, err := strconv.Atoi(strings.SplitN(jump.Month, "-", 2)[0]); err == nil {
			if c, ok := counts[year]; ok {
				c.sites += jump.Amount
			}
		}
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Ints(years)

	rows := make([]YearRow, 0, len(years))
	blogPosts, sites := 0, 0
	for i, year := range years {
		prevBlogPosts, prevSites := blogPosts, sites
		blogPosts += counts[year].blogPosts
		sites += counts[year].sites

		row := YearRow{
			Year:      strconv.Itoa(year),
			BlogPosts: blogPosts,
			Sites:     DashCount(sites),
		}
		if i > 0 {
			row.BlogPostsGrowth = DashCount(blogPosts - prevBlogPosts)
			row.SitesGrowth = DashCount(sites - prevSites)
		}
		rows = append(rows, row)
	}

	return rows
}
