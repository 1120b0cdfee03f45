package sitemeta

import (
	"regexp"
	"strings"
	"unicode"
)

const maxDescriptionLength = 300

var (
	ampersandRe    = regexp.MustCompile(`(?i)&(?:[a-z\d]+;|#\d+;|#x[a-f\d]+;)?`)
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Sanitize makes a scraped description safe to embed in an attribute:
// markup is stripped, bare ampersands and quotes escaped, whitespace
// collapsed and invisible characters dropped. The result is capped at 300
// characters, after which markdown links become anchors.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.NewReplacer("<", "", ">", "").Replace(text)
	text = ampersandRe.ReplaceAllStringFunc(text, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
	text = strings.NewReplacer(`"`, "&quot;", "'", "&#39;").Replace(text)
	text = collapseSpace(text)
	text = strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, text)

	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxDescriptionLength {
		text = string(runes[:maxDescriptionLength])
	}

	if strings.Contains(text, "[") {
		text = markdownLinkRe.ReplaceAllString(text, `<a href="$2">$1</a>`)
	}
	return text
}

// collapseSpace replaces every run of whitespace with a single space
func collapseSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func dropped(r rune) bool {
	switch {
	case r <= 0x1f, r >= 0x7f && r <= 0x9f:
		return true
	case r >= 0x200b && r <= 0x200d, r == 0xfeff:
		return true
	case r >= 0x202a && r <= 0x202e:
		return true
	case r == 0x00ad, r == 0x2060:
		return true
	case r >= 0xfff9 && r <= 0xfffb:
		return true
	}
	return false
}
