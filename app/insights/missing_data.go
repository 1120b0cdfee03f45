package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lysyi3m/bundle-desk/app/bundle"
	"github.com/lysyi3m/bundle-desk/app/settings"
	"github.com/lysyi3m/bundle-desk/app/slug"
	"golang.org/x/text/cases"
)

// AuthorRef identifies an author flagged by the audit
type AuthorRef struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

// PostRef points at a blog post that lacks a description
type PostRef struct {
	Title           string `json:"title"`
	Link            string `json:"link"`
	Author          string `json:"author"`
	SlugifiedAuthor string `json:"slugifiedAuthor"`
}

type MissingDataMetrics struct {
	TotalAuthors   int
	TotalBlogPosts int

	AuthorsWithMissingRSSLink     []AuthorRef
	AuthorsWithMissingFavicon     []AuthorRef
	AuthorsWithMissingDescription []AuthorRef
	PostsWithMissingDescription   []PostRef
}

// authorProfile is the latest known metadata of one author
type authorProfile struct {
	name               string
	hasRSSLink         bool
	favicon            string
	hasSiteDescription bool
	site               string
}

// merge overwrites fields with the entry's non-empty values. A whitespace
// string still overwrites, and leaves the field absent.
func (p *authorProfile) merge(e bundle.Entry) {
	if e.RSSLink != "" || e.HasRSSLink() {
		p.hasRSSLink = e.HasRSSLink()
	}
	if e.Favicon != "" {
		p.favicon = e.Favicon
	}
	if e.AuthorSiteDescription != "" || e.HasSiteDescription() {
		p.hasSiteDescription = e.HasSiteDescription()
	}
	if e.AuthorSite != "" {
		p.site = e.AuthorSite
	}
}

type exclusionKey struct {
	url      string
	dataType string
}

// exclusionSet matches author sites against exclusions by URL without
// trailing slashes and exact missing-data label.
type exclusionSet map[exclusionKey]struct{}

func newExclusionSet(exclusions []bundle.Exclusion) exclusionSet {
	set := make(exclusionSet, len(exclusions))
	for _, ex := range exclusions {
		set[exclusionKey{url: normalizeURL(ex.URL), dataType: ex.MissingDataType}] = struct{}{}
	}
	return set
}

func (s exclusionSet) excluded(site, dataType string) bool {
	_, ok := s[exclusionKey{url: normalizeURL(site), dataType: dataType}]
	return ok
}

func normalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}

// ComputeMissingData audits non-skipped entries for authors lacking an RSS
// link, favicon or site description, and blog posts lacking a description.
func ComputeMissingData(entries []bundle.Entry, exclusions []bundle.Exclusion, s *settings.Settings) MissingDataMetrics {
	excluded := newExclusionSet(exclusions)

	var profiles []*authorProfile
	byName := map[string]*authorProfile{}
	var blogPosts []bundle.Entry

	for _, e := range entries {
		if e.Skip {
			continue
		}
		if e.Type == bundle.TypeBlogPost {
			blogPosts = append(blogPosts, e)
		}
		if e.Author == "" {
			continue
		}

		p, ok := byName[e.Author]
		if !ok {
			p = &authorProfile{name: e.Author}
			byName[e.Author] = p
			profiles = append(profiles, p)
		}
		p.merge(e)
	}

	metrics := MissingDataMetrics{
		TotalAuthors:                  len(profiles),
		TotalBlogPosts:                len(blogPosts),
		AuthorsWithMissingRSSLink:     []AuthorRef{},
		AuthorsWithMissingFavicon:     []AuthorRef{},
		AuthorsWithMissingDescription: []AuthorRef{},
		PostsWithMissingDescription:   []PostRef{},
	}

	for _, p := range profiles {
		ref := AuthorRef{Name: p.name, Site: p.site}

		if !p.hasRSSLink && !excluded.excluded(p.site, bundle.MissingRSSFeed) {
			metrics.AuthorsWithMissingRSSLink = append(metrics.AuthorsWithMissingRSSLink, ref)
		}
		if p.favicon == s.MissingFavicon && !excluded.excluded(p.site, bundle.MissingFavicon) {
			metrics.AuthorsWithMissingFavicon = append(metrics.AuthorsWithMissingFavicon, ref)
		}
		if !p.hasSiteDescription && !excluded.excluded(p.site, bundle.MissingDescription) {
			metrics.AuthorsWithMissingDescription = append(metrics.AuthorsWithMissingDescription, ref)
		}
	}

	for _, e := range blogPosts {
		if e.HasDescription() {
			continue
		}
		metrics.PostsWithMissingDescription = append(metrics.PostsWithMissingDescription, PostRef{
			Title:           e.Title,
			Link:            postAnchor(e),
			Author:          e.Author,
			SlugifiedAuthor: e.SlugifiedAuthor,
		})
	}

	fold := cases.Fold()
	sortAuthorRefs(metrics.AuthorsWithMissingRSSLink, fold)
	sortAuthorRefs(metrics.AuthorsWithMissingFavicon, fold)
	sortAuthorRefs(metrics.AuthorsWithMissingDescription, fold)

	posts := metrics.PostsWithMissingDescription
	sort.SliceStable(posts, func(i, j int) bool {
		ai, aj := fold.String(posts[i].Author), fold.String(posts[j].Author)
		if ai != aj {
			return ai < aj
		}
		return fold.String(posts[i].Title) < fold.String(posts[j].Title)
	})

	return metrics
}

func sortAuthorRefs(refs []AuthorRef, fold cases.Caser) {
	sort.SliceStable(refs, func(i, j int) bool {
		return fold.String(refs[i].Name) < fold.String(refs[j].Name)
	})
}

// postAnchor links to the post highlighted on its first category page,
// or to the post itself when it has no category.
func postAnchor(e bundle.Entry) string {
	category := ""
	if len(e.Categories) > 0 {
		category = slug.Make(e.Categories[0])
	}
	if category == "" {
		return e.Link
	}

	date := ""
	if d, ok := ParseDate(e.Date); ok {
		date = d.Format("2006-01-02")
	}
	postID := fmt.Sprintf("post-%s-%s-%s", date, e.SlugifiedTitle, e.SlugifiedAuthor)
	return fmt.Sprintf("/categories/%s/?bundleitem_highlight=#%s", category, postID)
}
