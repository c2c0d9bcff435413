package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"

	"digestly/fetch"
	"digestly/model"
)

var (
	paywallRegex    = regexp.MustCompile(`(?i)"(is|isAccessibleFor)Free"\s*:\s*"?false"?`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// contentSelectors are common main-content containers, tried after the
// semantic elements fail.
const contentSelectors = "#content, .content, #main, .main, #main-content, #article, .article, #post-body, .post-body"

type ArticleExtractor struct {
	client *http.Client
	// browser is an optional JS-rendering fetch path, used only when the
	// static HTML yields no text.
	browser *fetch.Browser
	logger  *zap.Logger
}

func NewArticleExtractor(client *http.Client, browser *fetch.Browser, logger *zap.Logger) *ArticleExtractor {
	return &ArticleExtractor{client: client, browser: browser, logger: logger}
}

// Extract fetches an article URL and returns its title, author and main
// text.
func (e *ArticleExtractor) Extract(ctx context.Context, rawURL string) (*Content, error) {
	htmlContent, err := e.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	content, err := e.extractFromHTML(htmlContent, rawURL)
	if err == nil || e.browser == nil {
		return content, err
	}
	if !errors.Is(err, model.ErrNoContent) {
		return nil, err
	}

	// Static HTML had nothing readable; retry once with a rendered page.
	rendered, renderErr := e.browser.RenderHTML(ctx, rawURL)
	if renderErr != nil {
		e.logger.Warn("browser render failed", zap.String("url", rawURL), zap.Error(renderErr))
		return nil, err
	}
	return e.extractFromHTML(rendered, rawURL)
}

func (e *ArticleExtractor) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", model.ErrInvalidLink.Wrap(err)
	}
	req.Header.Set("User-Agent", fetch.DesktopUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.ErrNoInternet.Wrap(fmt.Errorf("article fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}
	return string(body), nil
}

// extractFromHTML runs the selector heuristics, then the trafilatura and
// readability fallbacks, against already-fetched HTML. The paywall gate runs
// before any DOM parsing.
func (e *ArticleExtractor) extractFromHTML(htmlContent, sourceURL string) (*Content, error) {
	if paywallRegex.MatchString(htmlContent) {
		return nil, model.ErrPaywall
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, model.ErrNoContent.Wrap(fmt.Errorf("failed to parse HTML: %w", err))
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = sourceURL
	}
	author := strings.TrimSpace(doc.Find("meta[name=author]").AttrOr("content", ""))
	if author == "" {
		author = "Article"
	}

	doc.Find("header, footer, nav, aside, script, style").Remove()

	text := collapseWhitespace(mainContentText(doc))
	if text == "" {
		text = e.fallbackText(htmlContent, sourceURL)
	}
	if text == "" {
		return nil, model.ErrNoContent.Wrap(fmt.Errorf("could not extract text from url %s", sourceURL))
	}

	return &Content{Title: title, Author: author, Text: text}, nil
}

// mainContentText selects the main-content element by priority: article,
// main, the section with the longest text, the densest common container,
// then the whole body.
func mainContentText(doc *goquery.Document) string {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		if text := sel.Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		if text := sel.Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	if text := longestText(doc.Find("section")); text != "" {
		return text
	}
	if text := longestText(doc.Find(contentSelectors)); text != "" {
		return text
	}
	return doc.Find("body").Text()
}

func longestText(sel *goquery.Selection) string {
	best := ""
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); len(text) > len(best) {
			best = text
		}
	})
	return strings.TrimSpace(best)
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// fallbackText runs the trafilatura then readability extractors; either may
// succeed where the selector heuristics found nothing.
func (e *ArticleExtractor) fallbackText(htmlContent, sourceURL string) string {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}

	opts := trafilatura.Options{OriginalURL: parsedURL}
	if result, err := trafilatura.Extract(strings.NewReader(htmlContent), opts); err == nil {
		if text := collapseWhitespace(result.ContentText); text != "" {
			e.logger.Info("trafilatura_extraction_result",
				zap.String("url", sourceURL),
				zap.Int("text_length", len(text)))
			return text
		}
	}

	parser := readability.NewParser()
	if article, err := parser.Parse(strings.NewReader(htmlContent), parsedURL); err == nil {
		if text := collapseWhitespace(article.TextContent); text != "" {
			e.logger.Info("readability_extraction_result",
				zap.String("url", sourceURL),
				zap.Int("text_length", len(text)))
			return text
		}
	}

	return ""
}
