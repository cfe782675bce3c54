package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultSlug is used when a title has no sluggable characters.
	DefaultSlug = "book"

	maxSlugLength = 50
)

var (
	slugStripper = regexp.MustCompile(`[^\w\s-]`)
	slugSpacer   = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a title to a URL-safe ASCII slug: accents are folded,
// anything but letters, digits, underscores, hyphens and spaces is removed,
// runs of hyphens and spaces become a single hyphen.
func Slugify(title string) string {
	var sb strings.Builder
	for _, r := range norm.NFKD.String(title) {
		if r > unicode.MaxASCII {
			continue
		}
		sb.WriteRune(r)
	}

	slug := strings.ToLower(sb.String())
	slug = slugStripper.ReplaceAllString(slug, "")
	slug = slugSpacer.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = strings.Trim(slug, "-_")

	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-_")
	}
	if slug == "" {
		return DefaultSlug
	}
	return slug
}
