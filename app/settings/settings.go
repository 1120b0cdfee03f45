package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Milestone annotates the growth chart with a product release
type Milestone struct {
	Month string `yaml:"month" json:"month"`
	Label string `yaml:"label" json:"label"`
	Type  string `yaml:"type" json:"type"`
}

// Settings tunes the insights report
type Settings struct {
	// SiteJumpMonth is the month from which the showcase/bundle site
	// discrepancy is added to site counts. Empty disables the correction.
	SiteJumpMonth      string      `yaml:"site_jump_month"`
	ExcludedCategories []string    `yaml:"excluded_categories"`
	MissingFavicon     string      `yaml:"missing_favicon"` // favicon value marking a missing icon
	Milestones         []Milestone `yaml:"milestones"`
}

// Default returns the settings used when no settings file exists
func Default() *Settings {
	return &Settings{
		SiteJumpMonth:      "2026-01",
		ExcludedCategories: []string{"How to..."},
		MissingFavicon:     "#icon-person-circle",
		Milestones: []Milestone{
			{Month: "2022-01", Label: "v1.0.0", Type: "minor"},
			{Month: "2023-02", Label: "v2.0.0", Type: "minor"},
			{Month: "2023-05", Label: "11tybundle.dev launch", Type: "major"},
			{Month: "2024-10", Label: "v3.0.0", Type: "minor"},
		},
	}
}

// Load reads a YAML settings file on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Settings file not found, using defaults", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	slog.Debug("Settings loaded", "path", path, "site_jump_month", s.SiteJumpMonth, "milestones", len(s.Milestones))
	return s, nil
}

// Validate checks month formats
func (s *Settings) Validate() error {
	if s.SiteJumpMonth != "" && !monthRe.MatchString(s.SiteJumpMonth) {
		return fmt.Errorf("site_jump_month must be YYYY-MM, got %q", s.SiteJumpMonth)
	}

	for i, m := range s.Milestones {
		if !monthRe.MatchString(m.Month) {
			return fmt.Errorf("milestone at index %d: month must be YYYY-MM, got %q", i, m.Month)
		}
		if m.Label == "" {
			return fmt.Errorf("milestone at index %d: label is required", i)
		}
	}

	return nil
}

// IsExcludedCategory reports whether a category label is left out of rankings
func (s *Settings) IsExcludedCategory(name string) bool {
	for _, c := range s.ExcludedCategories {
		if c == name {
			return true
		}
	}
	return false
}
