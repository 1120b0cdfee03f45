package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Corpus and output locations
	BundleDir      string `long:"bundle-dir" env:"BUNDLE_DIR" default:"./bundledb" description:"Directory holding the bundle corpus and generated data files"`
	BundlePath     string `long:"bundledb" env:"BUNDLEDB_PATH" description:"Path to bundledb.json (defaults to <bundle-dir>/bundledb.json)"`
	ShowcasePath   string `long:"showcase" env:"SHOWCASE_PATH" description:"Path to showcase-data.json (defaults to <bundle-dir>/showcase-data.json)"`
	ExclusionsPath string `long:"exclusions" env:"EXCLUSIONS_PATH" default:"./devdata/insights-exclusions.json" description:"Path to the insights exclusion list"`
	ChartsDir      string `long:"charts-dir" env:"CHARTS_DIR" default:"./charts" description:"Directory for the chart CSV files"`
	SettingsPath   string `long:"settings" env:"SETTINGS_PATH" default:"./insights.yml" description:"Path to the report settings file (optional)"`

	// Run ledger
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/bundle-desk.db" description:"SQLite database for the task run ledger"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for session tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"0" description:"Regenerate data files every N seconds (0 disables)"`
	RunOnce           bool   `long:"run-once" env:"RUN_ONCE" description:"Run a single end-session regeneration and exit"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; BundleDesk/1.0)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", raw.WorkerCount)
	}
	if raw.SchedulerInterval < 0 {
		return nil, fmt.Errorf("scheduler interval must not be negative, got %d", raw.SchedulerInterval)
	}

	cfg := &Cfg{
		BundleDir:         raw.BundleDir,
		BundlePath:        cmp.Or(raw.BundlePath, filepath.Join(raw.BundleDir, "bundledb.json")),
		ShowcasePath:      cmp.Or(raw.ShowcasePath, filepath.Join(raw.BundleDir, "showcase-data.json")),
		ExclusionsPath:    raw.ExclusionsPath,
		ChartsDir:         raw.ChartsDir,
		SettingsPath:      raw.SettingsPath,
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: time.Duration(raw.SchedulerInterval) * time.Second,
		RunOnce:           raw.RunOnce,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
