package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorRegex = regexp.MustCompile(`[\s'’]+`)
	nonSlugRegex   = regexp.MustCompile(`[^a-z-]`)
)

// CreateUsername builds the community username "first.last" from a name.
func CreateUsername(firstName string, lastName string) string {
	return slugify(firstName) + "." + slugify(lastName)
}

func slugify(s string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripAccents, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = separatorRegex.ReplaceAllString(s, "-")
	return nonSlugRegex.ReplaceAllString(s, "")
}
