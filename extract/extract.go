package extract

import (
	"regexp"
	"strings"
)

// Content is the normalized output of every extractor. Text is never blank;
// an extractor that cannot produce text fails with a taxonomy error instead.
type Content struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

var schemeRegex = regexp.MustCompile(`(?i)^https?://`)

// ensureScheme prefixes scheme-less input so bare "youtu.be/xyz" style links
// still parse with a host.
func ensureScheme(rawURL string) string {
	if schemeRegex.MatchString(rawURL) {
		return rawURL
	}
	return "https://" + rawURL
}

// pathSegments splits a URL path into non-empty segments.
func pathSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
