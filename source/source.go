// Package source classifies raw user input into a content source the
// summarization pipeline can dispatch on.
package source

import (
	"strings"

	"digestly/extract"
)

type Kind string

const (
	KindNone     Kind = "none"
	KindText     Kind = "text"
	KindArticle  Kind = "article"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// ContentSource is a tagged union over the input kinds. Exactly the fields
// for its Kind are set; it is created once per request and consumed once.
type ContentSource struct {
	Kind Kind

	// URL is set for Article and Video.
	URL string
	// Content is set for Text.
	Content string
	// Filename and URI are set for Document.
	Filename string
	URI      string
}

// DocumentHint marks the input as a document reference regardless of its
// string content.
type DocumentHint struct {
	Filename string
	URI      string
}

// Classify inspects raw input and produces a tagged ContentSource. Host
// matching is done on the parsed URL host, never by substring search, so
// URLs merely embedding a brand name elsewhere do not misclassify.
func Classify(rawInput string, hint *DocumentHint) ContentSource {
	if hint != nil {
		return ContentSource{Kind: KindDocument, Filename: hint.Filename, URI: hint.URI}
	}

	lower := strings.ToLower(rawInput)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if extract.IsYouTubeLink(rawInput) || extract.IsBiliBiliLink(rawInput) {
			return ContentSource{Kind: KindVideo, URL: rawInput}
		}
		return ContentSource{Kind: KindArticle, URL: rawInput}
	}

	if strings.TrimSpace(rawInput) != "" {
		return ContentSource{Kind: KindText, Content: rawInput}
	}
	return ContentSource{Kind: KindNone}
}

// IsYouTube reports whether the source is a YouTube video link.
func (s ContentSource) IsYouTube() bool {
	return s.Kind == KindVideo && extract.IsYouTubeLink(s.URL)
}

// IsBiliBili reports whether the source is a BiliBili video link.
func (s ContentSource) IsBiliBili() bool {
	return s.Kind == KindVideo && extract.IsBiliBiliLink(s.URL)
}
