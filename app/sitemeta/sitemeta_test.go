package sitemeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "bundle-desk-test" {
			http.Error(w, "missing user agent", http.StatusForbidden)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		expected string
	}{
		{
			name:     "meta description any case",
			page:     `<html><head><meta NAME="Description" content="Notes on  Eleventy &amp; more"></head></html>`,
			expected: "Notes on Eleventy &amp; more",
		},
		{
			name:     "open graph",
			page:     `<html><head><meta property="og:description" content="From OG"></head></html>`,
			expected: "From OG",
		},
		{
			name:     "twitter before dublin core",
			page:     `<html><head><meta name="DC.description" content="dc"><meta name="Twitter:Description" content="tw"></head></html>`,
			expected: "tw",
		},
		{
			name:     "itemprop",
			page:     `<html><head><meta itemprop="description" content="micro"></head></html>`,
			expected: "micro",
		},
		{
			name:     "json-ld graph",
			page:     `<html><head><script type="application/ld+json">{"@graph": [{"@type": "WebSite"}, {"description": "from graph"}]}</script></head></html>`,
			expected: "from graph",
		},
		{
			name:     "json-ld list",
			page:     `<html><head><script type="application/ld+json">[{"description": "from list"}]</script></head></html>`,
			expected: "from list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, map[string]string{"/post": tt.page})
			extractor := NewExtractor(server.Client(), "bundle-desk-test")

			got, err := extractor.Description(context.Background(), server.URL+"/post")
			if err != nil {
				t.Fatalf("Description failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDescription_YouTube(t *testing.T) {
	extractor := NewExtractor(nil, "bundle-desk-test")

	got, err := extractor.Description(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Description failed: %v", err)
	}
	if got != "YouTube video" {
		t.Errorf("Expected 'YouTube video', got %q", got)
	}
}

func TestDescription_HTTPError(t *testing.T) {
	server := newTestServer(t, map[string]string{})
	extractor := NewExtractor(server.Client(), "bundle-desk-test")

	if _, err := extractor.Description(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("Expected an error for a 404 page")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"strips angle brackets", "Hello <b>world</b>", "Hello bworld/b"},
		{"escapes bare ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"keeps entities", "a &amp; b &#39; c &#x2F; d", "a &amp; b &#39; c &#x2F; d"},
		{"escapes quotes", `say "hi" it's`, "say &quot;hi&quot; it&#39;s"},
		{"collapses whitespace", "  one \n\t two three  ", "one two three"},
		{"drops invisible characters", "zero\u200bwidth\u00adsoft\ufeff\u0007", "zerowidthsoft"},
		{"markdown link", "See [docs](https://11ty.dev/docs) now", `See <a href="https://11ty.dev/docs">docs</a> now`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitize_Truncates(t *testing.T) {
	got := Sanitize(strings.Repeat("é", 350))
	if n := len([]rune(got)); n != maxDescriptionLength {
		t.Errorf("Expected %d characters, got %d", maxDescriptionLength, n)
	}
}

func TestRSSLink_Advertised(t *testing.T) {
	tests := []struct {
		name string
		head string
		path string
	}{
		{"rss absolute path", `<link rel="alternate" type="application/rss+xml" href="/feed.xml">`, "/feed.xml"},
		{"atom relative path", `<link rel="alternate" type="application/atom+xml" href="atom.xml">`, "/atom.xml"},
		{"rss preferred over atom", `<link type="application/atom+xml" href="/atom.xml"><link type="application/rss+xml" href="/rss.xml">`, "/rss.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, map[string]string{"/": "<html><head>" + tt.head + "</head></html>"})
			extractor := NewExtractor(server.Client(), "bundle-desk-test")

			got := extractor.RSSLink(context.Background(), server.URL+"/blog/some-post/")
			if got != server.URL+tt.path {
				t.Errorf("Expected %s, got %s", server.URL+tt.path, got)
			}
		})
	}
}

func TestRSSLink_AbsoluteHref(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/": `<html><head><link type="application/rss+xml" href="https://feeds.example.com/main"></head></html>`,
	})
	extractor := NewExtractor(server.Client(), "bundle-desk-test")

	if got := extractor.RSSLink(context.Background(), server.URL); got != "https://feeds.example.com/main" {
		t.Errorf("Expected the absolute feed URL, got %s", got)
	}
}

func TestRSSLink_ProbesCommonPaths(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/":         "<html><head><title>no feed links</title></head></html>",
		"/feed.xml": "<!DOCTYPE html><html><body>Not found, but 200</body></html>",
		"/rss.xml":  `<?xml version="1.0"?><rss version="2.0"><channel><title>Blog</title><link>https://example.com</link></channel></rss>`,
	})
	extractor := NewExtractor(server.Client(), "bundle-desk-test")

	if got := extractor.RSSLink(context.Background(), server.URL+"/about"); got != server.URL+"/rss.xml" {
		t.Errorf("Expected %s/rss.xml, got %s", server.URL, got)
	}
}

func TestRSSLink_NotFound(t *testing.T) {
	server := newTestServer(t, map[string]string{"/": "<html></html>"})
	extractor := NewExtractor(server.Client(), "bundle-desk-test")

	if got := extractor.RSSLink(context.Background(), server.URL); got != "" {
		t.Errorf("Expected no feed, got %s", got)
	}
	if got := extractor.RSSLink(context.Background(), "not a url"); got != "" {
		t.Errorf("Expected no feed for an invalid URL, got %s", got)
	}
}

func TestLooksLikeFeed(t *testing.T) {
	tests := []struct {
		body     string
		expected bool
	}{
		{"\n\n<?xml version=\"1.0\"?><feed xmlns=\"http://www.w3.org/2005/Atom\"></feed>", true},
		{"<rss version=\"2.0\"></rss>", true},
		{"<!DOCTYPE html><html><rss></rss></html>", false},
		{"{\"version\": \"https://jsonfeed.org/version/1\"}", false},
	}

	for _, tt := range tests {
		if got := looksLikeFeed([]byte(tt.body)); got != tt.expected {
			t.Errorf("looksLikeFeed(%q) = %v, expected %v", tt.body, got, tt.expected)
		}
	}
}

func TestAuthorInfo(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/": `<html><head><meta name="description" content="Alice's blog"><link type="application/rss+xml" href="/feed.xml"></head></html>`,
	})
	extractor := NewExtractor(server.Client(), "bundle-desk-test")

	info := extractor.AuthorInfo(context.Background(), server.URL+"/")
	if info.Description != "Alice&#39;s blog" {
		t.Errorf("Expected sanitized description, got %q", info.Description)
	}
	if info.RSSLink != server.URL+"/feed.xml" {
		t.Errorf("Expected feed link, got %q", info.RSSLink)
	}
}
