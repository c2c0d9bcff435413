package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"digestly/model"
)

// TextExtractionService handles document formats that need a platform
// engine (OCR, PDF rendering, DOCX). Implementations live outside the core;
// any failure is mapped to a no-content error.
type TextExtractionService interface {
	ExtractText(ctx context.Context, uri string) (string, error)
}

type DocumentExtractor struct {
	service TextExtractionService
	logger  *zap.Logger
}

// NewDocumentExtractor builds a document extractor. service may be nil, in
// which case only the natively supported formats work.
func NewDocumentExtractor(service TextExtractionService, logger *zap.Logger) *DocumentExtractor {
	return &DocumentExtractor{service: service, logger: logger}
}

// Extract reads the document behind uri and returns its text. Plain text,
// markdown and HTML are handled natively; everything else goes through the
// injected service.
func (e *DocumentExtractor) Extract(ctx context.Context, filename, uri string) (*Content, error) {
	name := filename
	if name == "" {
		name = filepath.Base(uri)
	}

	text, err := e.extractText(ctx, name, uri)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrNoContent.Wrap(fmt.Errorf("extracted text from file is empty: %s", name))
	}

	return &Content{Title: name, Author: "Document", Text: text}, nil
}

func (e *DocumentExtractor) extractText(ctx context.Context, name, uri string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(localPath(uri))
		if err != nil {
			return "", model.ErrNoContent.Wrap(err)
		}
		return string(data), nil

	case ".html", ".htm":
		data, err := os.ReadFile(localPath(uri))
		if err != nil {
			return "", model.ErrNoContent.Wrap(err)
		}
		node, err := html.Parse(strings.NewReader(string(data)))
		if err != nil {
			return "", model.ErrNoContent.Wrap(err)
		}
		md, err := htmltomarkdown.ConvertNode(node)
		if err != nil {
			return "", model.ErrNoContent.Wrap(err)
		}
		return string(md), nil

	default:
		if e.service == nil {
			return "", model.ErrInvalidLink.Wrap(fmt.Errorf("unsupported file type: %s", name))
		}
		text, err := e.service.ExtractText(ctx, uri)
		if err != nil {
			e.logger.Warn("document service extraction failed",
				zap.String("uri", uri),
				zap.Error(err))
			return "", model.ErrNoContent.Wrap(err)
		}
		return text, nil
	}
}

// localPath strips a file:// prefix; document URIs arrive either as plain
// paths or file URLs.
func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
