package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bundle-desk/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/insights", handler.GetInsights)

	protected := r.Group("/")
	if apiAccessKey != "" {
		protected.Use(authMiddleware(apiAccessKey))
		slog.Info("Editor endpoints require authentication")
	} else {
		slog.Warn("Editor endpoints are open (API_ACCESS_KEY not set)")
	}

	protected.GET("/db-mgmt/stats", handler.GetCorpusStats)

	editor := protected.Group("/editor")
	{
		editor.GET("/latest-issue", handler.GetLatestIssue)
		editor.GET("/runs", handler.ListRuns)
		editor.POST("/end-session", handler.EndSession)
		editor.POST("/check-url", handler.CheckURL)
		editor.POST("/description", handler.GetDescription)
		editor.POST("/rss-link", handler.GetRSSLink)
		editor.POST("/author-info", handler.GetAuthorInfo)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "Bundle Desk",
			"version":     cfg.GetVersion(),
			"description": "Editorial backend for the 11ty Bundle corpus",
			"endpoints": map[string]string{
				"health":       "/health",
				"insights":     "/insights",
				"stats":        "/db-mgmt/stats",
				"latest_issue": "/editor/latest-issue",
				"runs":         "/editor/runs?limit=<n>",
				"end_session":  "/editor/end-session (POST)",
				"check_url":    "/editor/check-url (POST)",
				"description":  "/editor/description (POST)",
				"rss_link":     "/editor/rss-link (POST)",
				"author_info":  "/editor/author-info (POST)",
			},
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware creates authentication middleware for editor endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
