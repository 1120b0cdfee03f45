package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/database"
	"github.com/lysyi3m/bundle-desk/app/issues"
	"github.com/lysyi3m/bundle-desk/app/tasks"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

func NewHandler(runRepo database.TaskRunRepository, scheduler tasks.TaskSchedulerInterface,
	metadata MetadataExtractor, paths Paths) *Handler {
	return &Handler{
		runRepo:   runRepo,
		scheduler: scheduler,
		metadata:  metadata,
		paths:     paths,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if runCount, err := h.runRepo.GetRunCount(); err == nil {
		health["task_runs"] = runCount
	}

	lastSuccess := map[string]interface{}{}
	for _, taskType := range tasks.SessionTaskTypes {
		run, err := h.runRepo.GetLastSuccess(string(taskType))
		if err != nil {
			slog.Warn("Failed to load last successful run", "task_type", taskType, "error", err)
			continue
		}
		if run == nil {
			lastSuccess[string(taskType)] = nil
			continue
		}
		lastSuccess[string(taskType)] = run.StartedAt.In(time.Local).Format(time.RFC3339)
	}
	health["last_success"] = lastSuccess

	health["scheduler"] = h.scheduler.Health()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetCorpusStats(c *gin.Context) {
	entries, err := bundle.LoadEntries(h.paths.Bundle)
	if err != nil {
		slog.Error("Failed to load bundle corpus", "path", h.paths.Bundle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bundle corpus"})
		return
	}

	showcase, err := bundle.LoadShowcase(h.paths.Showcase)
	if err != nil {
		slog.Error("Failed to load showcase corpus", "path", h.paths.Showcase, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load showcase corpus"})
		return
	}

	c.JSON(http.StatusOK, bundle.ComputeStats(entries, showcase))
}

func (h *Handler) GetLatestIssue(c *gin.Context) {
	counts, err := issues.LatestCounts(h.paths.Bundle)
	if err != nil {
		if errors.Is(err, issues.ErrNoIssueNumbers) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Failed to count latest issue", "path", h.paths.Bundle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bundle corpus"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) EndSession(c *gin.Context) {
	session, err := h.scheduler.RunSession(c.Request.Context())
	if err != nil {
		slog.Error("End session failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, tasks.ErrSchedulerStopped) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	slog.Info("End session completed", "session", session.ID, "all_succeeded", session.Success())

	response := gin.H{"success": true}
	for _, taskType := range tasks.SessionTaskTypes {
		response[string(taskType)] = session.Results[taskType]
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) ListRuns(c *gin.Context) {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, map[string]interface{}{
			"id":          run.ID,
			"session_id":  run.SessionID,
			"task_type":   run.TaskType,
			"success":     run.Success,
			"message":     run.Message,
			"started_at":  run.StartedAt.In(time.Local).Format(time.RFC3339),
			"duration_ms": run.DurationMs,
		})
	}

	response := map[string]interface{}{
		"runs":  items,
		"count": len(items),
	}
	if total, err := h.runRepo.GetRunCount(); err == nil {
		response["total"] = total
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetInsights(c *gin.Context) {
	data, err := os.ReadFile(h.paths.Report)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Insights report has not been generated yet"})
			return
		}
		slog.Error("Failed to read insights report", "path", h.paths.Report, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read insights report"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) CheckURL(c *gin.Context) {
	url, ok := requestURL(c)
	if !ok {
		return
	}

	entries, err := bundle.LoadEntries(h.paths.Bundle)
	if err != nil {
		slog.Warn("Bundle corpus unavailable for URL check", "error", err)
	}
	showcase, err := bundle.LoadShowcase(h.paths.Showcase)
	if err != nil {
		slog.Warn("Showcase corpus unavailable for URL check", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"url":   url,
		"found": bundle.FindLink(entries, showcase, url),
	})
}

func (h *Handler) GetDescription(c *gin.Context) {
	url, ok := requestURL(c)
	if !ok {
		return
	}

	description, err := h.metadata.Description(c.Request.Context(), url)
	if err != nil {
		slog.Warn("Description lookup failed", "url", url, "error", err)
	}
	if description == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Could not extract description"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "description": description})
}

func (h *Handler) GetRSSLink(c *gin.Context) {
	url, ok := requestURL(c)
	if !ok {
		return
	}

	rssLink := h.metadata.RSSLink(c.Request.Context(), url)
	if rssLink == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Could not find RSS feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "rssLink": rssLink})
}

func (h *Handler) GetAuthorInfo(c *gin.Context) {
	url, ok := requestURL(c)
	if !ok {
		return
	}

	info := h.metadata.AuthorInfo(c.Request.Context(), url)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"description": info.Description,
		"rssLink":     info.RSSLink,
	})
}

// requestURL reads the url field of a JSON body and answers 400 when it is blank
func requestURL(c *gin.Context) (string, bool) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.URL = ""
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No URL provided"})
		return "", false
	}
	return url, true
}
