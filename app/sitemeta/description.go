package sitemeta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Description returns the sanitized description of the page at pageURL.
// An empty string with a nil error means the page has no description.
func (e *Extractor) Description(ctx context.Context, pageURL string) (string, error) {
	if strings.Contains(pageURL, "youtube.com") {
		return "YouTube video", nil
	}

	data, err := e.fetch(ctx, pageURL, defaultTimeout)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	description := firstNonEmpty(
		func() string { return metaContent(doc, "name", "description") },
		func() string { return attrContent(doc, "meta[property='og:description']") },
		func() string { return metaContent(doc, "name", "twitter:description") },
		func() string { return metaContent(doc, "name", "DC.description") },
		func() string { return attrContent(doc, "meta[itemprop='description']") },
		func() string { return jsonLDDescription(doc) },
		func() string { return readabilityExcerpt(data, pageURL) },
	)

	return Sanitize(description), nil
}

func firstNonEmpty(sources ...func() string) string {
	for _, source := range sources {
		if v := source(); v != "" {
			return v
		}
	}
	return ""
}

// metaContent finds the first meta tag whose attr matches value
// case-insensitively and has content.
func metaContent(doc *goquery.Document, attr, value string) string {
	content := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		if !ok || !strings.EqualFold(v, value) {
			return true
		}
		if c, ok := s.Attr("content"); ok && c != "" {
			content = c
			return false
		}
		return true
	})
	return content
}

func attrContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func jsonLDDescription(doc *goquery.Document) string {
	description := ""
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload interface{}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}

		items, ok := payload.([]interface{})
		if !ok {
			items = []interface{}{payload}
		}

		for _, item := range items {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if d, ok := obj["description"].(string); ok && d != "" {
				description = d
				return false
			}
			graph, _ := obj["@graph"].([]interface{})
			for _, node := range graph {
				if n, ok := node.(map[string]interface{}); ok {
					if d, ok := n["description"].(string); ok && d != "" {
						description = d
						return false
					}
				}
			}
		}
		return true
	})
	return description
}

func readabilityExcerpt(data []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsed)
	if err != nil {
		slog.Debug("Readability extraction failed", "url", pageURL, "error", err)
		return ""
	}
	return strings.TrimSpace(article.Excerpt)
}
