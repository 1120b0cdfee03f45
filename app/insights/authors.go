package insights

import (
	"sort"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"golang.org/x/text/cases"
)

// Author contribution buckets, in report order
const (
	Range1to2   = "1-2"
	Range3to4   = "3-4"
	Range5to10  = "5-10"
	Range11to20 = "11-20"
	Range21Plus = "21+"
)

// ProlificThreshold is the entry count from which an author is listed as prolific
const ProlificThreshold = 5

// AuthorRange is the number of authors within one contribution bucket
type AuthorRange struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type ProlificAuthor struct {
	Name  string `json:"name"`
	Site  string `json:"site"`
	Count int    `json:"count"`
}

type AuthorMetrics struct {
	Ranges          []AuthorRange
	ProlificAuthors []ProlificAuthor
}

type authorStat struct {
	name  string
	site  string
	count int
}

// authorTally folds entries into per-author counts in first-seen order.
// The first non-empty AuthorSite sticks.
type authorTally struct {
	order  []*authorStat
	byName map[string]*authorStat
}

func newAuthorTally() *authorTally {
	return &authorTally{byName: make(map[string]*authorStat)}
}

func (t *authorTally) add(e bundle.Entry) {
	stat, ok := t.byName[e.Author]
	if !ok {
		stat = &authorStat{name: e.Author}
		t.byName[e.Author] = stat
		t.order = append(t.order, stat)
	}
	stat.count++
	if stat.site == "" && e.AuthorSite != "" {
		stat.site = e.AuthorSite
	}
}

func bucketFor(count int) string {
	switch {
	case count >= 21:
		return Range21Plus
	case count >= 11:
		return Range11to20
	case count >= 5:
		return Range5to10
	case count >= 3:
		return Range3to4
	default:
		return Range1to2
	}
}

// ComputeAuthors buckets non-skipped authors by entry count and ranks the
// prolific ones by count, then case-insensitive name.
func ComputeAuthors(entries []bundle.Entry) AuthorMetrics {
	tally := newAuthorTally()
	for _, e := range entries {
		if e.Skip || e.Author == "" {
			continue
		}
		tally.add(e)
	}

	buckets := map[string]int{}
	prolific := []ProlificAuthor{}
	for _, stat := range tally.order {
		buckets[bucketFor(stat.count)]++
		if stat.count >= ProlificThreshold {
			prolific = append(prolific, ProlificAuthor{Name: stat.name, Site: stat.site, Count: stat.count})
		}
	}

	fold := cases.Fold()
	keys := make(map[string]string, len(prolific))
	for _, p := range prolific {
		keys[p.Name] = fold.String(p.Name)
	}
	sort.SliceStable(prolific, func(i, j int) bool {
		if prolific[i].Count != prolific[j].Count {
			return prolific[i].Count > prolific[j].Count
		}
		return keys[prolific[i].Name] < keys[prolific[j].Name]
	})

	ranges := make([]AuthorRange, 0, 5)
	for _, bucket := range []string{Range1to2, Range3to4, Range5to10, Range11to20, Range21Plus} {
		ranges = append(ranges, AuthorRange{Range: bucket, Count: buckets[bucket]})
	}

	return AuthorMetrics{Ranges: ranges, ProlificAuthors: prolific}
}
