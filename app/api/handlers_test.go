package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bundle-desk/app/database"
	"github.com/lysyi3m/bundle-desk/app/sitemeta"
	"github.com/lysyi3m/bundle-desk/app/tasks"
)

type MockTaskRunRepository struct {
	runs []database.TaskRun
	err  error
}

func (m *MockTaskRunRepository) RecordRun(run database.TaskRun) (int64, error) {
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *MockTaskRunRepository) GetRecentRuns(limit int) ([]database.TaskRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *MockTaskRunRepository) GetRunCount() (int, error) {
	return len(m.runs), m.err
}

func (m *MockTaskRunRepository) GetLastSuccess(taskType string) (*database.TaskRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].TaskType == taskType && m.runs[i].Success {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, nil
}

type MockScheduler struct {
	session *tasks.SessionResult
	err     error
	calls   int
}

func (m *MockScheduler) Start() {}
func (m *MockScheduler) Stop()  {}

func (m *MockScheduler) EnqueueTask(task tasks.TaskInterface) (<-chan tasks.Result, error) {
	return nil, errors.New("not implemented")
}

func (m *MockScheduler) RunSession(ctx context.Context) (*tasks.SessionResult, error) {
	m.calls++
	return m.session, m.err
}

func (m *MockScheduler) GetStats() tasks.Stats {
	return tasks.Stats{}
}

func (m *MockScheduler) Health() map[string]interface{} {
	return map[string]interface{}{"status": "healthy"}
}

type MockMetadata struct {
	description string
	rssLink     string
	lastURL     string
}

func (m *MockMetadata) Description(ctx context.Context, url string) (string, error) {
	m.lastURL = url
	if m.description == "" {
		return "", errors.New("HTTP error: 404")
	}
	return m.description, nil
}

func (m *MockMetadata) RSSLink(ctx context.Context, url string) string {
	m.lastURL = url
	return m.rssLink
}

func (m *MockMetadata) AuthorInfo(ctx context.Context, url string) sitemeta.AuthorInfo {
	m.lastURL = url
	return sitemeta.AuthorInfo{Description: m.description, RSSLink: m.rssLink}
}

type testEnv struct {
	router    *gin.Engine
	runRepo   *MockTaskRunRepository
	scheduler *MockScheduler
	metadata  *MockMetadata
	paths     Paths
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	paths := Paths{
		Bundle:   filepath.Join(dir, "bundledb.json"),
		Showcase: filepath.Join(dir, "showcase-data.json"),
		Report:   filepath.Join(dir, "insightsdata.json"),
	}
	bundleData := `[
		{"Issue": 1, "Type": "blog post", "Title": "Old", "Link": "https://old.dev", "Author": "Alice", "Categories": ["CSS"]},
		{"Issue": 2, "Type": "site", "Title": "New", "Link": "https://www.new.dev/", "Author": "Bob"},
		{"Issue": 2, "Type": "blog post", "Title": "Post", "Link": "https://bob.dev/post", "Author": "Bob", "Categories": ["CSS", "Eleventy"]}
	]`
	if err := os.WriteFile(paths.Bundle, []byte(bundleData), 0o644); err != nil {
		t.Fatalf("Failed to write bundle: %v", err)
	}
	if err := os.WriteFile(paths.Showcase, []byte(`[{"title": "New", "link": "https://new.dev"}]`), 0o644); err != nil {
		t.Fatalf("Failed to write showcase: %v", err)
	}

	env := &testEnv{
		runRepo:   &MockTaskRunRepository{},
		scheduler: &MockScheduler{},
		metadata:  &MockMetadata{},
		paths:     paths,
	}
	handler := NewHandler(env.runRepo, env.scheduler, env.metadata, paths)
	env.router = NewServer(handler, apiKey)
	return env
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestGetHealth(t *testing.T) {
	env := newTestEnv(t, "")
	startedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	env.runRepo.runs = []database.TaskRun{
		{TaskType: "genissuerecords", Success: true, StartedAt: startedAt},
		{TaskType: "genissuerecords", Success: false, StartedAt: startedAt.Add(time.Hour)},
	}

	w := env.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["task_runs"] != float64(2) {
		t.Errorf("Expected 2 task runs, got %v", body["task_runs"])
	}
	lastSuccess, _ := body["last_success"].(map[string]interface{})
	if lastSuccess["genissuerecords"] != startedAt.Format(time.RFC3339) {
		t.Errorf("Expected last success %s, got %v", startedAt.Format(time.RFC3339), lastSuccess["genissuerecords"])
	}
	if v, ok := lastSuccess["generate_insights"]; !ok || v != nil {
		t.Errorf("Expected null last success for a task that never succeeded, got %v", v)
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("Expected a timestamp")
	}
	scheduler, _ := body["scheduler"].(map[string]interface{})
	if scheduler["status"] != "healthy" {
		t.Errorf("Expected scheduler health, got %v", body["scheduler"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t, "secret")

	if w := env.do(http.MethodGet, "/editor/latest-issue", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a key, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/editor/latest-issue", "", map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with a wrong key, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/editor/latest-issue", "", map[string]string{"X-API-Key": "secret"}); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with X-API-Key, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/editor/latest-issue", "", map[string]string{"Authorization": "Bearer secret"}); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with a bearer token, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected health to stay public, got %d", w.Code)
	}
	if w := env.do(http.MethodOptions, "/editor/end-session", "", nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", w.Code)
	}
}

func TestGetCorpusStats(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/db-mgmt/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["totalEntries"] != float64(3) || body["authors"] != float64(2) || body["categories"] != float64(2) {
		t.Errorf("Unexpected stats: %v", body)
	}
	if body["showcaseTotal"] != float64(1) {
		t.Errorf("Expected 1 showcase entry, got %v", body["showcaseTotal"])
	}
}

func TestGetLatestIssue(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/editor/latest-issue", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["issue_number"] != float64(2) || body["blog_posts"] != float64(1) || body["sites"] != float64(1) {
		t.Errorf("Unexpected counts: %v", body)
	}
}

func TestGetLatestIssue_NoIssues(t *testing.T) {
	env := newTestEnv(t, "")
	if err := os.WriteFile(env.paths.Bundle, []byte(`[{"Type": "site"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	if w := env.do(http.MethodGet, "/editor/latest-issue", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestEndSession(t *testing.T) {
	env := newTestEnv(t, "")
	env.scheduler.session = &tasks.SessionResult{
		ID: "session-1",
		Results: map[tasks.TaskType]tasks.Result{
			tasks.TaskTypeIssueRecords: {Success: true, Stdout: "Wrote 2 issue records to issuerecords.json"},
			tasks.TaskTypeInsights:     {Success: false, Error: "failed to read bundle corpus"},
			tasks.TaskTypeLatestData:   {Success: true, Stdout: "Latest issue #2: 2 bundle entries, 0 showcase entries"},
		},
	}

	w := env.do(http.MethodPost, "/editor/end-session", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}

	records, _ := body["genissuerecords"].(map[string]interface{})
	if records["success"] != true || records["stdout"] != "Wrote 2 issue records to issuerecords.json" {
		t.Errorf("Unexpected genissuerecords result: %v", records)
	}

	insights, _ := body["generate_insights"].(map[string]interface{})
	if insights["success"] != false || insights["error"] != "failed to read bundle corpus" {
		t.Errorf("Unexpected generate_insights result: %v", insights)
	}
	if _, ok := insights["stdout"]; ok {
		t.Error("Expected no stdout on a failed task")
	}

	if _, ok := body["generate_latest_data"]; !ok {
		t.Error("Expected generate_latest_data result")
	}
}

func TestEndSession_SchedulerStopped(t *testing.T) {
	env := newTestEnv(t, "")
	env.scheduler.err = tasks.ErrSchedulerStopped

	w := env.do(http.MethodPost, "/editor/end-session", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestListRuns(t *testing.T) {
	env := newTestEnv(t, "")
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		env.runRepo.runs = append(env.runRepo.runs, database.TaskRun{
			ID: int64(3 - i), SessionID: "s", TaskType: "generate_insights", Success: true, StartedAt: started, DurationMs: 5,
		})
	}

	w := env.do(http.MethodGet, "/editor/runs?limit=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["count"] != float64(2) || body["total"] != float64(3) {
		t.Errorf("Expected 2 of 3 runs, got %v/%v", body["count"], body["total"])
	}

	runs, _ := body["runs"].([]interface{})
	first, _ := runs[0].(map[string]interface{})
	if first["task_type"] != "generate_insights" || first["duration_ms"] != float64(5) {
		t.Errorf("Unexpected run: %v", first)
	}

	if w := env.do(http.MethodGet, "/editor/runs?limit=abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad limit, got %d", w.Code)
	}

	env.runRepo.err = errors.New("database is locked")
	if w := env.do(http.MethodGet, "/editor/runs", "", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on a database error, got %d", w.Code)
	}
}

func TestGetInsights(t *testing.T) {
	env := newTestEnv(t, "")

	if w := env.do(http.MethodGet, "/insights", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before generation, got %d", w.Code)
	}

	report := "{\n  \"generatedDate\": \"2024-05-01T12:30:00\"\n}"
	if err := os.WriteFile(env.paths.Report, []byte(report), 0o644); err != nil {
		t.Fatal(err)
	}

	w := env.do(http.MethodGet, "/insights", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != report {
		t.Errorf("Expected the report verbatim, got %s", w.Body.String())
	}
}

func TestCheckURL(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodPost, "/editor/check-url", `{"url": "new.dev"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	found, _ := body["found"].([]interface{})
	if len(found) != 2 {
		t.Errorf("Expected bundle and showcase matches, got %v", body["found"])
	}
}

func TestSiteMetadataEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodPost, "/editor/description", `{"url": "  "}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a blank URL, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "No URL provided" {
		t.Errorf("Unexpected error: %v", body["error"])
	}

	if w := env.do(http.MethodPost, "/editor/rss-link", "not json", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid body, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/editor/description", `{"url": "https://a.dev"}`, nil)
	if body := decodeBody(t, w); body["success"] != false || body["error"] != "Could not extract description" {
		t.Errorf("Expected a failed lookup, got %v", body)
	}

	env.metadata.description = "A blog"
	env.metadata.rssLink = "https://a.dev/feed.xml"

	w = env.do(http.MethodPost, "/editor/description", `{"url": " https://a.dev "}`, nil)
	if body := decodeBody(t, w); body["success"] != true || body["description"] != "A blog" {
		t.Errorf("Unexpected description response: %v", body)
	}
	if env.metadata.lastURL != "https://a.dev" {
		t.Errorf("Expected trimmed URL, got %q", env.metadata.lastURL)
	}

	w = env.do(http.MethodPost, "/editor/rss-link", `{"url": "https://a.dev"}`, nil)
	if body := decodeBody(t, w); body["rssLink"] != "https://a.dev/feed.xml" {
		t.Errorf("Unexpected rss-link response: %v", body)
	}

	w = env.do(http.MethodPost, "/editor/author-info", `{"url": "https://a.dev"}`, nil)
	body := decodeBody(t, w)
	if body["success"] != true || body["description"] != "A blog" || body["rssLink"] != "https://a.dev/feed.xml" {
		t.Errorf("Unexpected author-info response: %v", body)
	}
}
