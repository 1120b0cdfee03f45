package sitemeta

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Feed locations tried when a site does not advertise its feed
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/index.xml",
	"/atom.xml",
	"/feed/",
	"/blog/feed.xml",
	"/blog/feed",
	"/blog/rss.xml",
	"/blog/index.xml",
	"/blog/rss/",
}

// RSSLink discovers the RSS or Atom feed of the site hosting siteURL.
// It returns an empty string when no feed is found.
func (e *Extractor) RSSLink(ctx context.Context, siteURL string) string {
	origin, ok := originOf(siteURL)
	if !ok {
		return ""
	}

	data, err := e.fetch(ctx, origin, defaultTimeout)
	if err != nil {
		slog.Debug("Failed to fetch site for feed discovery", "url", origin, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	href := ""
	for _, feedType := range []string{"application/rss+xml", "application/atom+xml"} {
		if v, ok := doc.Find(`link[type="` + feedType + `"]`).First().Attr("href"); ok && v != "" {
			href = v
			break
		}
	}
	if href != "" {
		return resolveFeedHref(origin, href)
	}

	return e.probeFeedPaths(ctx, origin)
}

func (e *Extractor) probeFeedPaths(ctx context.Context, origin string) string {
	parser := gofeed.NewParser()

	for _, path := range commonFeedPaths {
		if ctx.Err() != nil {
			return ""
		}

		candidate := origin + path
		data, err := e.fetch(ctx, candidate, probeTimeout)
		if err != nil || !looksLikeFeed(data) {
			continue
		}
		if _, err := parser.Parse(bytes.NewReader(data)); err != nil {
			slog.Debug("Feed candidate failed to parse", "url", candidate, "error", err)
			continue
		}
		return candidate
	}
	return ""
}

// looksLikeFeed rejects HTML error pages served with a 200 status
func looksLikeFeed(data []byte) bool {
	head := strings.TrimLeft(string(data), " \t\r\n")
	if len(head) > 500 {
		head = head[:500]
	}

	isFeed := strings.Contains(head, "<rss") || strings.Contains(head, "<feed") || strings.Contains(head, "<channel>")
	return isFeed && !strings.Contains(head, "<!DOCTYPE html") && !strings.Contains(head, "<html")
}

func originOf(siteURL string) (string, bool) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}

func resolveFeedHref(origin, href string) string {
	switch {
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return origin + href
	default:
		return origin + "/" + href
	}
}
