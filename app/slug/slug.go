// Package slug converts titles, author names and category labels into the
// URL fragments used across the bundle site.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Applied before diacritics are stripped, so umlauts become two letters
// instead of their base letter.
var replacer = strings.NewReplacer(
	"&", " and ", "\U0001f984", " unicorn ", "♥", " love ",
	"ä", "ae", "Ä", "Ae",
	"ö", "oe", "Ö", "Oe",
	"ü", "ue", "Ü", "Ue",
	"ß", "ss", "ẞ", "Ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"đ", "d", "Đ", "D",
)

var (
	contractionRe = regexp.MustCompile(`([a-z\d]+)['\x{2019}]([ts])(\s|$)`)
	nonAlnumRe    = regexp.MustCompile(`[^a-z\d]+`)
)

// Make returns the slug for text.
// Case transitions are not split: "CloudCannon" becomes "cloudcannon".
func Make(text string) string {
	text = replacer.Replace(text)
	text = stripMarks(text)
	text = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Pd, r) {
			return '-'
		}
		return r
	}, text)
	text = strings.ToLower(text)
	text = contractionRe.ReplaceAllString(text, "${1}${2}${3}")
	text = nonAlnumRe.ReplaceAllString(text, "-")
	text = strings.TrimPrefix(text, "-")
	text = strings.TrimSuffix(text, "-")
	return text
}

func stripMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
