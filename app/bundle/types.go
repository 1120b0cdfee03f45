package bundle

import (
	"encoding/json"
	"strings"
)

// Entry types used by the bundle corpus
const (
	TypeBlogPost = "blog post"
	TypeSite     = "site"
	TypeRelease  = "release"
	TypeStarter  = "starter"
)

// IssueNumber is the loosely typed Issue field of a bundle entry.
// Valid is false when the field is missing, null or not convertible to an integer.
type IssueNumber struct {
	Value int
	Valid bool
}

// Issue returns a valid IssueNumber
func Issue(n int) IssueNumber {
	return IssueNumber{Value: n, Valid: true}
}

// Positive reports the issue number when it is usable as a grouping key (>= 1)
func (n IssueNumber) Positive() (int, bool) {
	if !n.Valid || n.Value < 1 {
		return 0, false
	}
	return n.Value, true
}

// Entry is a single record of the bundle corpus.
// Fields of the wrong JSON type decode as their zero value.
type Entry struct {
	Type                  string
	Issue                 IssueNumber
	Date                  string
	Skip                  bool
	Title                 string
	Link                  string
	Author                string
	AuthorSite            string
	AuthorSiteDescription string
	RSSLink               string
	Favicon               string
	Description           string
	Categories            []string
	SlugifiedTitle        string
	SlugifiedAuthor       string

	// Raw holds the source JSON object, used when entries are written back out.
	Raw json.RawMessage

	opaqueDescription     bool
	opaqueRSSLink         bool
	opaqueSiteDescription bool
}

// HasDescription reports whether the entry carries a usable description.
// A non-string description counts as present when it is JSON-truthy.
func (e Entry) HasDescription() bool {
	return e.opaqueDescription || strings.TrimSpace(e.Description) != ""
}

// HasRSSLink reports whether the entry carries a usable rssLink, with the
// same rules as HasDescription.
func (e Entry) HasRSSLink() bool {
	return e.opaqueRSSLink || strings.TrimSpace(e.RSSLink) != ""
}

// HasSiteDescription reports whether the entry carries a usable AuthorSiteDescription
func (e Entry) HasSiteDescription() bool {
	return e.opaqueSiteDescription || strings.TrimSpace(e.AuthorSiteDescription) != ""
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*e = Entry{
		Type:                  str(fields["Type"]),
		Issue:                 issue(fields["Issue"]),
		Date:                  str(fields["Date"]),
		Skip:                  truthy(fields["Skip"]),
		Title:                 str(fields["Title"]),
		Link:                  str(fields["Link"]),
		Author:                str(fields["Author"]),
		AuthorSite:            str(fields["AuthorSite"]),
		AuthorSiteDescription: str(fields["AuthorSiteDescription"]),
		RSSLink:               str(fields["rssLink"]),
		Favicon:               str(fields["favicon"]),
		Description:           str(fields["description"]),
		Categories:            strs(fields["Categories"]),
		SlugifiedTitle:        str(fields["slugifiedTitle"]),
		SlugifiedAuthor:       str(fields["slugifiedAuthor"]),
		Raw:                   append(json.RawMessage(nil), data...),
	}

	e.opaqueDescription = opaque(fields, "description")
	e.opaqueRSSLink = opaque(fields, "rssLink")
	e.opaqueSiteDescription = opaque(fields, "AuthorSiteDescription")

	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}

	out := map[string]interface{}{
		"Type":   e.Type,
		"Date":   e.Date,
		"Title":  e.Title,
		"Link":   e.Link,
		"Author": e.Author,
	}
	if e.Issue.Valid {
		out["Issue"] = e.Issue.Value
	}
	if e.Skip {
		out["Skip"] = true
	}
	if len(e.Categories) > 0 {
		out["Categories"] = e.Categories
	}
	return json.Marshal(out)
}

// ShowcaseEntry is a single record of the showcase corpus
type ShowcaseEntry struct {
	Title string
	Link  string
	Date  string
	Skip  bool

	Raw json.RawMessage
}

func (s *ShowcaseEntry) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*s = ShowcaseEntry{
		Title: str(fields["title"]),
		Link:  str(fields["link"]),
		Date:  str(fields["date"]),
		Skip:  truthy(fields["skip"]),
		Raw:   append(json.RawMessage(nil), data...),
	}
	return nil
}

func (s ShowcaseEntry) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}

	out := map[string]interface{}{
		"title": s.Title,
		"link":  s.Link,
		"date":  s.Date,
	}
	if s.Skip {
		out["skip"] = true
	}
	return json.Marshal(out)
}

// Missing data labels understood by exclusions
const (
	MissingRSSFeed     = "rss feed"
	MissingFavicon     = "favicon"
	MissingDescription = "description"
)

// Exclusion suppresses one missing-data flag for one author site
type Exclusion struct {
	URL             string `json:"url"`
	MissingDataType string `json:"missingDataType"`
}
