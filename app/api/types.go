package api

import (
	"context"

	"github.com/lysyi3m/bundle-desk/app/database"
	"github.com/lysyi3m/bundle-desk/app/sitemeta"
	"github.com/lysyi3m/bundle-desk/app/tasks"
)

type MetadataExtractor interface {
	Description(ctx context.Context, url string) (string, error)
	RSSLink(ctx context.Context, url string) string
	AuthorInfo(ctx context.Context, url string) sitemeta.AuthorInfo
}

var _ MetadataExtractor = (*sitemeta.Extractor)(nil)

// Paths are the corpus files and reports served by the API
type Paths struct {
	Bundle   string
	Showcase string
	Report   string
}

type Handler struct {
	runRepo   database.TaskRunRepository
	scheduler tasks.TaskSchedulerInterface
	metadata  MetadataExtractor
	paths     Paths
}

type urlRequest struct {
	URL string `json:"url"`
}
