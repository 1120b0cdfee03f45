package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lysyi3m/bundle-desk/app/insights"
	"github.com/lysyi3m/bundle-desk/app/issues"
	"github.com/lysyi3m/bundle-desk/app/settings"
)

func testPipelines(t *testing.T, bundle string) Pipelines {
	t.Helper()
	dir := t.TempDir()

	bundlePath := filepath.Join(dir, "bundledb.json")
	showcasePath := filepath.Join(dir, "showcase-data.json")
	if err := os.WriteFile(bundlePath, []byte(bundle), 0o644); err != nil {
		t.Fatalf("Failed to write bundle: %v", err)
	}
	showcase := `[{"title": "x", "link": "https://x.dev", "date": "2024-03-02"}]`
	if err := os.WriteFile(showcasePath, []byte(showcase), 0o644); err != nil {
		t.Fatalf("Failed to write showcase: %v", err)
	}

	return Pipelines{
		Records: issues.RecordsPaths{
			Bundle: bundlePath,
			Output: filepath.Join(dir, "issuerecords.json"),
		},
		Latest: issues.LatestPaths{
			Bundle:         bundlePath,
			Showcase:       showcasePath,
			BundleOutput:   filepath.Join(dir, "bundledb-latest-issue.json"),
			ShowcaseOutput: filepath.Join(dir, "showcase-data-latest-issue.json"),
		},
		Insights: insights.Paths{
			Bundle:          bundlePath,
			Showcase:        showcasePath,
			Exclusions:      filepath.Join(dir, "insights-exclusions.json"),
			Report:          filepath.Join(dir, "insightsdata.json"),
			EntryGrowthCSV:  filepath.Join(dir, "charts", "entry-growth.csv"),
			AuthorGrowthCSV: filepath.Join(dir, "charts", "author-growth.csv"),
		},
		Generator: insights.NewGenerator(settings.Default()),
	}
}

func TestPipelines_SessionTasks(t *testing.T) {
	p := testPipelines(t, `[
		{"Issue": 1, "Type": "blog post", "Date": "2024-02-01", "Author": "Alice", "Link": "https://a.dev/1"},
		{"Issue": 2, "Type": "site", "Date": "2024-03-01", "Author": "Bob", "Link": "https://b.dev"}
	]`)

	tasks := p.SessionTasks("session-1")
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}

	expected := map[TaskType]string{
		TaskTypeIssueRecords: "Wrote 2 issue records to ",
		TaskTypeInsights:     "Insights: 3 entries, 1 posts, 2 sites, 0 releases, 2 authors",
		TaskTypeLatestData:   "Latest issue #2: 1 bundle entries, 1 showcase entries",
	}

	for _, task := range tasks {
		if task.GetSessionID() != "session-1" {
			t.Errorf("Expected session ID session-1, got %s", task.GetSessionID())
		}
		if task.GetID() == "" {
			t.Error("Expected a task ID")
		}

		task.Start()
		out, err := task.Execute(context.Background())
		if err != nil {
			t.Fatalf("Task %s failed: %v", task.GetType(), err)
		}
		if !strings.HasPrefix(out, expected[task.GetType()]) {
			t.Errorf("Expected %s output to start with %q, got %q", task.GetType(), expected[task.GetType()], out)
		}
	}

	for _, path := range []string{p.Records.Output, p.Latest.BundleOutput, p.Insights.Report, p.Insights.AuthorGrowthCSV} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to be written: %v", filepath.Base(path), err)
		}
	}
}

func TestPipelines_TaskErrors(t *testing.T) {
	p := testPipelines(t, `[{"Type": "blog post", "Date": "2024-02-01"}]`)

	for _, task := range p.SessionTasks("session-2") {
		_, err := task.Execute(context.Background())
		switch task.GetType() {
		case TaskTypeInsights:
			if err != nil {
				t.Errorf("Expected insights to succeed without issue numbers, got %v", err)
			}
		default:
			if err == nil || !strings.Contains(err.Error(), "no valid issue numbers") {
				t.Errorf("Expected %s to fail on missing issue numbers, got %v", task.GetType(), err)
			}
		}
	}
}

func TestTask_CancelledContext(t *testing.T) {
	p := testPipelines(t, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, task := range p.SessionTasks("session-3") {
		if _, err := task.Execute(ctx); err != context.Canceled {
			t.Errorf("Expected %s to honour cancellation, got %v", task.GetType(), err)
		}
	}
}
