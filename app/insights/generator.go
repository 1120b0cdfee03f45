package insights

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/settings"
)

// Paths locates the inputs and outputs of one insights run
type Paths struct {
	Bundle          string
	Showcase        string
	Exclusions      string
	Report          string
	EntryGrowthCSV  string
	AuthorGrowthCSV string
}

// Summary is the headline of a completed run
type Summary struct {
	TotalEntries int `json:"totalEntries"`
	BlogPosts    int `json:"blogPosts"`
	Sites        int `json:"sites"`
	Releases     int `json:"releases"`
	TotalAuthors int `json:"totalAuthors"`
}

type Generator struct {
	settings *settings.Settings
	now      func() time.Time
}

func NewGenerator(s *settings.Settings) *Generator {
	if s == nil {
		s = settings.Default()
	}
	return &Generator{settings: s, now: time.Now}
}

// Build computes the report from in-memory corpora
func (g *Generator) Build(entries []bundle.Entry, showcase []bundle.ShowcaseEntry, exclusions []bundle.Exclusion) (*Report, Metrics) {
	metrics := ComputeMetrics(entries, showcase, exclusions, g.settings)
	report := BuildReport(metrics, len(showcase), g.settings, formatGeneratedDate(g.now()))
	return report, metrics
}

// Run loads the corpora, writes the report and both CSVs, and returns the
// headline numbers.
func (g *Generator) Run(paths Paths) (Summary, error) {
	start := time.Now()

	entries, err := bundle.LoadEntries(paths.Bundle)
	if err != nil {
		return Summary{}, err
	}
	showcase, err := bundle.LoadShowcase(paths.Showcase)
	if err != nil {
		return Summary{}, err
	}
	exclusions := bundle.LoadExclusions(paths.Exclusions)

	report, metrics := g.Build(entries, showcase, exclusions)

	if err := bundle.WriteJSON(paths.Report, report); err != nil {
		return Summary{}, fmt.Errorf("failed to write insights report: %w", err)
	}
	if err := bundle.WriteFile(paths.EntryGrowthCSV, []byte(EntryGrowthCSV(metrics.EntriesByYear))); err != nil {
		return Summary{}, fmt.Errorf("failed to write entry growth chart data: %w", err)
	}
	if err := bundle.WriteFile(paths.AuthorGrowthCSV, []byte(AuthorGrowthCSV(entries))); err != nil {
		return Summary{}, fmt.Errorf("failed to write author growth chart data: %w", err)
	}

	summary := Summary{
		TotalEntries: report.Stats.TotalEntries,
		BlogPosts:    report.Stats.BlogPosts,
		Sites:        report.Stats.Sites,
		Releases:     report.Stats.Releases,
		TotalAuthors: report.Stats.TotalAuthors,
	}

	slog.Info("Insights generated",
		"report", paths.Report,
		"total_entries", summary.TotalEntries,
		"total_authors", summary.TotalAuthors,
		"duration", time.Since(start))

	return summary, nil
}

// formatGeneratedDate renders local wall time with microseconds, omitting
// the fraction when it is zero.
func formatGeneratedDate(t time.Time) string {
	t = t.Local()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}
