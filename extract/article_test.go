package extract

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"digestly/model"
)

func TestPaywallRegex(t *testing.T) {
	testCases := []struct {
		name    string
		html    string
		paywall bool
	}{
		{"IsFreeFalse", `<script>{"isFree": false}</script>`, true},
		{"IsFreeFalseQuoted", `{"isFree":"false"}`, true},
		{"IsAccessibleForFreeFalse", `{"isAccessibleForFree" : "False"}`, true},
		{"IsFreeTrue", `{"isFree": true}`, false},
		{"IsAccessibleForFreeTrue", `{"isAccessibleForFree":"true"}`, false},
		{"NoMarker", `<html><body>open article</body></html>`, false},
		{"FalseElsewhere", `{"commentsEnabled": false}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paywallRegex.MatchString(tc.html); got != tc.paywall {
				t.Errorf("paywall match = %v, want %v", got, tc.paywall)
			}
		})
	}
}

func articleClient(html string, status int) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(status, html), nil
	})}
}

func TestArticleExtract(t *testing.T) {
	html := `<html><head><title> Sample Post </title>
		<meta name="author" content="Jane Doe"></head>
		<body>
		<nav>ignore this nav</nav>
		<article>First paragraph.

		Second   paragraph.</article>
		<footer>ignore this footer</footer>
		</body></html>`

	e := NewArticleExtractor(articleClient(html, 200), nil, zap.NewNop())
	content, err := e.Extract(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Title != "Sample Post" {
		t.Errorf("unexpected title %q", content.Title)
	}
	if content.Author != "Jane Doe" {
		t.Errorf("unexpected author %q", content.Author)
	}
	if content.Text != "First paragraph. Second paragraph." {
		t.Errorf("unexpected text %q", content.Text)
	}
	if strings.Contains(content.Text, "nav") {
		t.Errorf("navigation not stripped: %q", content.Text)
	}
}

func TestArticleExtractDefaults(t *testing.T) {
	html := `<html><body><main>Body text only.</main></body></html>`

	e := NewArticleExtractor(articleClient(html, 200), nil, zap.NewNop())
	content, err := e.Extract(context.Background(), "https://example.com/untitled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Title != "https://example.com/untitled" {
		t.Errorf("expected URL fallback title, got %q", content.Title)
	}
	if content.Author != "Article" {
		t.Errorf("expected default author, got %q", content.Author)
	}
}

func TestArticleExtractSelectorPriority(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected string
	}{
		{
			"ArticleBeatsMain",
			`<body><article>from article</article><main>from main</main></body>`,
			"from article",
		},
		{
			"MainBeatsSection",
			`<body><main>from main</main><section>from section</section></body>`,
			"from main",
		},
		{
			"LongestSectionWins",
			`<body><section>short</section><section>a much longer section body</section></body>`,
			"a much longer section body",
		},
		{
			"ContentContainerFallback",
			`<body><div id="content">container text here</div><div>noise</div></body>`,
			"container text here",
		},
		{
			"BodyFallback",
			`<body>plain body text</body>`,
			"plain body text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewArticleExtractor(articleClient("<html>"+tc.html+"</html>", 200), nil, zap.NewNop())
			content, err := e.Extract(context.Background(), "https://example.com/x")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if content.Text != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, content.Text)
			}
		})
	}
}

func TestArticleExtractErrors(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		status   int
		expected error
	}{
		{"Paywall", `<html>{"isAccessibleForFree":"false"}<body>teaser</body></html>`, 200, model.ErrPaywall},
		{"ServerError", "oops", 500, model.ErrNoInternet},
		{"NotFound", "missing", 404, model.ErrNoInternet},
		{"EmptyPage", "<html><body></body></html>", 200, model.ErrNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewArticleExtractor(articleClient(tc.html, tc.status), nil, zap.NewNop())
			_, err := e.Extract(context.Background(), "https://example.com/x")
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}
