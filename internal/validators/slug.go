package validators

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NormalizeSlug lower-cases and trims a public booking slug.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// IsSlugValid accepts lower case words joined by single hyphens, 3 to 100
// characters long.
func IsSlugValid(slug string) bool {
	if len(slug) < 3 || len(slug) > 100 {
		return false
	}
	return slugPattern.MatchString(slug)
}
