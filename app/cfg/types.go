package cfg

import (
	"path/filepath"
	"time"

	"github.com/lysyi3m/bundle-desk/app/insights"
	"github.com/lysyi3m/bundle-desk/app/issues"
)

type Cfg struct {
	// Corpus and output locations
	BundleDir      string
	BundlePath     string
	ShowcasePath   string
	ExclusionsPath string
	ChartsDir      string
	SettingsPath   string

	// Run ledger
	DBPath string

	// Application configuration
	Port              string
	APIAccessKey      string
	WorkerCount       int
	SchedulerInterval time.Duration
	RunOnce           bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) RecordsPaths() issues.RecordsPaths {
	return issues.RecordsPaths{
		Bundle: c.BundlePath,
		Output: filepath.Join(c.BundleDir, "issuerecords.json"),
	}
}

func (c *Cfg) LatestPaths() issues.LatestPaths {
	return issues.LatestPaths{
		Bundle:         c.BundlePath,
		Showcase:       c.ShowcasePath,
		BundleOutput:   filepath.Join(c.BundleDir, "bundledb-latest-issue.json"),
		ShowcaseOutput: filepath.Join(c.BundleDir, "showcase-data-latest-issue.json"),
	}
}

func (c *Cfg) InsightsPaths() insights.Paths {
	return insights.Paths{
		Bundle:          c.BundlePath,
		Showcase:        c.ShowcasePath,
		Exclusions:      c.ExclusionsPath,
		Report:          filepath.Join(c.BundleDir, "insightsdata.json"),
		EntryGrowthCSV:  filepath.Join(c.ChartsDir, "entry-growth.csv"),
		AuthorGrowthCSV: filepath.Join(c.ChartsDir, "author-growth.csv"),
	}
}
