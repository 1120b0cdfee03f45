package insights

import (
	"sort"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/settings"
)

const topCategoryLimit = 20

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CategoryMetrics struct {
	Top20      []CategoryCount
	Cumulative map[string]map[string]int // category -> month -> running total
	Months     []string
}

// ComputeCategories ranks categories of non-skipped entries by occurrence.
// Ties keep first-seen order. Growth series are built for the top 20 only.
func ComputeCategories(entries []bundle.Entry, s *settings.Settings) CategoryMetrics {
	var order []string
	counts := map[string]int{}
	var span dateSpan
	counter := monthCounter{}

	for _, e := range entries {
		if e.Skip || len(e.Categories) == 0 {
			continue
		}

		d, dated := ParseDate(e.Date)
		if dated {
			span.observe(d)
		}

		for _, cat := range e.Categories {
			if s.IsExcludedCategory(cat) {
				continue
			}
			if _, seen := counts[cat]; !seen {
				order = append(order, cat)
			}
			counts[cat]++
			if dated {
				counter.add(YearMonth(d), cat)
			}
		}
	}

	ranked := make([]CategoryCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, CategoryCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topCategoryLimit {
		ranked = ranked[:topCategoryLimit]
	}

	metrics := CategoryMetrics{
		Top20:      ranked,
		Cumulative: map[string]map[string]int{},
		Months:     []string{},
	}
	if !span.ok {
		return metrics
	}

	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}
	metrics.Months = span.months()
	metrics.Cumulative = counter.runningTotals(names, metrics.Months)
	return metrics
}

// Series returns the cumulative values of one category along the month axis
func (m CategoryMetrics) Series(name string) []int {
	series := make([]int, len(m.Months))
	for i, month := range m.Months {
		series[i] = m.Cumulative[name][month]
	}
	return series
}
