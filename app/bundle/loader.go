package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// LoadEntries reads the bundle corpus
func LoadEntries(path string) ([]Entry, error) {
	var entries []Entry
	if err := readJSON(path, &entries); err != nil {
		return nil, fmt.Errorf("failed to read bundle corpus: %w", err)
	}
	return entries, nil
}

// LoadShowcase reads the showcase corpus
func LoadShowcase(path string) ([]ShowcaseEntry, error) {
	var entries []ShowcaseEntry
	if err := readJSON(path, &entries); err != nil {
		return nil, fmt.Errorf("failed to read showcase corpus: %w", err)
	}
	return entries, nil
}

// LoadExclusions reads the missing-data exclusion list.
// A missing or unreadable file yields an empty list.
func LoadExclusions(path string) []Exclusion {
	if path == "" {
		return []Exclusion{}
	}

	var exclusions []Exclusion
	if err := readJSON(path, &exclusions); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Ignoring unreadable exclusions file", "path", path, "error", err)
		}
		return []Exclusion{}
	}

	if exclusions == nil {
		return []Exclusion{}
	}
	return exclusions
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
