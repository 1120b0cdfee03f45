package sitemeta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	probeTimeout   = 3 * time.Second
	maxBodySize    = 5 << 20
)

// Extractor looks up author site metadata over HTTP
type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(client *http.Client, userAgent string) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Extractor{client: client, userAgent: userAgent}
}

// AuthorInfo is the metadata the editor fills in for a new author
type AuthorInfo struct {
	Description string `json:"description"`
	RSSLink     string `json:"rssLink"`
}

// AuthorInfo looks up the description and feed of an author site.
// Lookups that fail leave their field empty.
func (e *Extractor) AuthorInfo(ctx context.Context, siteURL string) AuthorInfo {
	description, _ := e.Description(ctx, siteURL)
	return AuthorInfo{
		Description: description,
		RSSLink:     e.RSSLink(ctx, siteURL),
	}
}

func (e *Extractor) fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
