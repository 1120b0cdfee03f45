package insights

import (
	"github.com/lysyi3m/bundle-desk/app/bundle"
)

// EntryTypes are the entry types tracked by the growth metrics, in report order
var EntryTypes = []string{bundle.TypeBlogPost, bundle.TypeSite, bundle.TypeRelease}

// EntryTypeMetrics holds per-type totals and cumulative monthly growth
type EntryTypeMetrics struct {
	Counts     map[string]int
	Cumulative map[string]map[string]int // type -> month -> running total
	Months     []string
}

// monthCounter pre-aggregates counts per (month, key)
type monthCounter map[string]map[string]int

func (mc monthCounter) add(month, key string) {
	byKey, ok := mc[month]
	if !ok {
		byKey = make(map[string]int)
		mc[month] = byKey
	}
	byKey[key]++
}

// runningTotals turns the per-month counts into cumulative series over months
func (mc monthCounter) runningTotals(keys, months []string) map[string]map[string]int {
	cumulative := make(map[string]map[string]int, len(keys))
	for _, key := range keys {
		series := make(map[string]int, len(months))
		running := 0
		for _, month := range months {
			running += mc[month][key]
			series[month] = running
		}
		cumulative[key] = series
	}
	return cumulative
}

func isTrackedType(t string) bool {
	for _, et := range EntryTypes {
		if et == t {
			return true
		}
	}
	return false
}

// ComputeEntryTypes counts non-skipped blog posts, sites and releases and
// builds their cumulative growth over the months spanned by their dates.
func ComputeEntryTypes(entries []bundle.Entry) EntryTypeMetrics {
	metrics := EntryTypeMetrics{
		Counts:     make(map[string]int, len(EntryTypes)),
		Cumulative: map[string]map[string]int{},
		Months:     []string{},
	}
	for _, t := range EntryTypes {
		metrics.Counts[t] = 0
	}

	var span dateSpan
	counter := monthCounter{}
	for _, e := range entries {
		if e.Skip || !isTrackedType(e.Type) {
			continue
		}
		metrics.Counts[e.Type]++

		if d, ok := ParseDate(e.Date); ok {
			span.observe(d)
			counter.add(YearMonth(d), e.Type)
		}
	}

	if !span.ok {
		return metrics
	}

	metrics.Months = span.months()
	metrics.Cumulative = counter.runningTotals(EntryTypes, metrics.Months)
	return metrics
}

// Series returns the cumulative values of one type along the month axis
func (m EntryTypeMetrics) Series(entryType string) []int {
	series := make([]int, len(m.Months))
	for i, month := range m.Months {
		series[i] = m.Cumulative[entryType][month]
	}
	return series
}
