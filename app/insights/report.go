package insights

import (
	"bytes"
	"encoding/json"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/settings"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const categoryRankingLimit = 15

// Report is the insights document written to insightsdata.json.
// Field order is the document's key order.
type Report struct {
	GeneratedDate      string               `json:"generatedDate"`
	Stats              Stats                `json:"stats"`
	EntriesByYear      []YearRow            `json:"entriesByYear"`
	CumulativeGrowth   CumulativeGrowth     `json:"cumulativeGrowth"`
	SiteJump           SiteJump             `json:"siteJump"`
	Milestones         []settings.Milestone `json:"milestones"`
	CategoryRanking    []CategoryCount      `json:"categoryRanking"`
	CategoryGrowth     CategoryGrowth       `json:"categoryGrowth"`
	AuthorDistribution []AuthorRange        `json:"authorDistribution"`
	ProlificAuthors    []ProlificAuthor     `json:"prolificAuthors"`
	MissingData        MissingDataReport    `json:"missingData"`
}

type Stats struct {
	TotalEntries        int `json:"totalEntries"`
	BlogPosts           int `json:"blogPosts"`
	Sites               int `json:"sites"`
	Releases            int `json:"releases"`
	TotalAuthors        int `json:"totalAuthors"`
	TotalShowcase       int `json:"totalShowcase"`
	ProlificAuthorCount int `json:"prolificAuthorCount"`
}

type CumulativeGrowth struct {
	Months []string     `json:"months"`
	Series GrowthSeries `json:"series"`
}

type GrowthSeries struct {
	BlogPosts []int `json:"blogPosts"`
	Sites     []int `json:"sites"`
	Releases  []int `json:"releases"`
}

// CategoryGrowth keeps its series keyed by category in ranking order
type CategoryGrowth struct {
	Months []string       `json:"months"`
	Series CategorySeries `json:"series"`
}

// CategorySeries encodes its keys in insertion order without HTML escaping,
// so names like "Tips & Tricks" stay readable in the document
type CategorySeries struct {
	*orderedmap.OrderedMap[string, []int]
}

func (c CategorySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c.OrderedMap != nil {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		for pair := c.Oldest(); pair != nil; pair = pair.Next() {
			if pair != c.Oldest() {
				buf.WriteByte(',')
			}
			if err := enc.Encode(pair.Key); err != nil {
				return nil, err
			}
			buf.Truncate(buf.Len() - 1)
			buf.WriteByte(':')

			values := pair.Value
			if values == nil {
				values = []int{}
			}
			if err := enc.Encode(values); err != nil {
				return nil, err
			}
			buf.Truncate(buf.Len() - 1)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type MissingDataReport struct {
	TotalAuthors      int              `json:"totalAuthors"`
	TotalBlogPosts    int              `json:"totalBlogPosts"`
	RSSLink           MissingAuthors   `json:"rssLink"`
	Favicon           MissingAuthors   `json:"favicon"`
	AuthorDescription MissingAuthors   `json:"authorDescription"`
	BlogDescription   MissingPostsInfo `json:"blogDescription"`
}

type MissingAuthors struct {
	Count      int         `json:"count"`
	Percentage Percent     `json:"percentage"`
	Authors    []AuthorRef `json:"authors"`
}

type MissingPostsInfo struct {
	Count      int       `json:"count"`
	Percentage Percent   `json:"percentage"`
	Posts      []PostRef `json:"posts"`
}

// Metrics bundles every independent computation over one corpus
type Metrics struct {
	EntryTypes    EntryTypeMetrics
	Authors       AuthorMetrics
	Categories    CategoryMetrics
	MissingData   MissingDataMetrics
	SiteJump      SiteJump
	EntriesByYear []YearRow
}

// ComputeMetrics runs every metric over the corpora
func ComputeMetrics(entries []bundle.Entry, showcase []bundle.ShowcaseEntry,
	exclusions []bundle.Exclusion, s *settings.Settings) Metrics {
	jump := ComputeSiteJump(entries, showcase, s.SiteJumpMonth)

	return Metrics{
		EntryTypes:    ComputeEntryTypes(entries),
		Authors:       ComputeAuthors(entries),
		Categories:    ComputeCategories(entries, s),
		MissingData:   ComputeMissingData(entries, exclusions, s),
		SiteJump:      jump,
		EntriesByYear: ComputeEntriesByYear(entries, jump),
	}
}

// BuildReport assembles the insights document from computed metrics
func BuildReport(m Metrics, showcaseTotal int, s *settings.Settings, generatedDate string) *Report {
	jump := m.SiteJump
	counts := m.EntryTypes.Counts
	md := m.MissingData

	ranking := m.Categories.Top20
	if len(ranking) > categoryRankingLimit {
		ranking = ranking[:categoryRankingLimit]
	}
	categorySeries := CategorySeries{orderedmap.New[string, []int]()}
	for _, c := range ranking {
		categorySeries.Set(c.Name, m.Categories.Series(c.Name))
	}

	milestones := s.Milestones
	if milestones == nil {
		milestones = []settings.Milestone{}
	}

	return &Report{
		GeneratedDate: generatedDate,
		Stats: Stats{
			TotalEntries:        counts[bundle.TypeBlogPost] + counts[bundle.TypeSite] + counts[bundle.TypeRelease] + jump.Amount,
			BlogPosts:           counts[bundle.TypeBlogPost],
			Sites:               counts[bundle.TypeSite] + jump.Amount,
			Releases:            counts[bundle.TypeRelease],
			TotalAuthors:        md.TotalAuthors,
			TotalShowcase:       showcaseTotal,
			ProlificAuthorCount: len(m.Authors.ProlificAuthors),
		},
		EntriesByYear: m.EntriesByYear,
		CumulativeGrowth: CumulativeGrowth{
			Months: m.EntryTypes.Months,
			Series: GrowthSeries{
				BlogPosts: m.EntryTypes.Series(bundle.TypeBlogPost),
				Sites:     siteSeries(m.EntryTypes, jump),
				Releases:  m.EntryTypes.Series(bundle.TypeRelease),
			},
		},
		SiteJump:        jump,
		Milestones:      milestones,
		CategoryRanking: ranking,
		CategoryGrowth: CategoryGrowth{
			Months: m.Categories.Months,
			Series: categorySeries,
		},
		AuthorDistribution: m.Authors.Ranges,
		ProlificAuthors:    m.Authors.ProlificAuthors,
		MissingData: MissingDataReport{
			TotalAuthors:   md.TotalAuthors,
			TotalBlogPosts: md.TotalBlogPosts,
			RSSLink: MissingAuthors{
				Count:      len(md.AuthorsWithMissingRSSLink),
				Percentage: FormatPercent(len(md.AuthorsWithMissingRSSLink), md.TotalAuthors),
				Authors:    md.AuthorsWithMissingRSSLink,
			},
			Favicon: MissingAuthors{
				Count:      len(md.AuthorsWithMissingFavicon),
				Percentage: FormatPercent(len(md.AuthorsWithMissingFavicon), md.TotalAuthors),
				Authors:    md.AuthorsWithMissingFavicon,
			},
			AuthorDescription: MissingAuthors{
				Count:      len(md.AuthorsWithMissingDescription),
				Percentage: FormatPercent(len(md.AuthorsWithMissingDescription), md.TotalAuthors),
				Authors:    md.AuthorsWithMissingDescription,
			},
			BlogDescription: MissingPostsInfo{
				Count:      len(md.PostsWithMissingDescription),
				Percentage: FormatPercent(len(md.PostsWithMissingDescription), md.TotalBlogPosts),
				Posts:      md.PostsWithMissingDescription,
			},
		},
	}
}

// siteSeries adds the jump amount from the jump month onwards, when the jump
// month lies on the axis.
func siteSeries(m EntryTypeMetrics, jump SiteJump) []int {
	series := m.Series(bundle.TypeSite)
	if jump.Amount <= 0 {
		return series
	}

	for i, month := range m.Months {
		if month == jump.Month {
			for j := i; j < len(series); j++ {
				series[j] += jump.Amount
			}
			break
		}
	}
	return series
}
