// Package docservice extracts text from binary document formats (PDF,
// EPUB) using MuPDF, with an OCR pass for pages that carry no text layer.
package docservice

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

type Service struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// ExtractText reads the document behind uri and returns its plain text.
// Scanned PDFs without a text layer go through OCR page by page.
func (s *Service) ExtractText(ctx context.Context, uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".epub", ".xps", ".mobi":
	default:
		return "", fmt.Errorf("unsupported document format: %s", filepath.Base(path))
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	var blankPages []int
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(pageNum)
		if err != nil {
			s.logger.Warn("failed to read page text",
				zap.String("file", path),
				zap.Int("page", pageNum+1),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			blankPages = append(blankPages, pageNum)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	// A document where every page is blank is likely scanned images.
	if strings.TrimSpace(sb.String()) == "" && len(blankPages) > 0 {
		return s.ocrPages(ctx, doc, path, blankPages)
	}
	return sb.String(), nil
}

func (s *Service) ocrPages(ctx context.Context, doc *fitz.Document, path string, pages []int) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetVariable("tessedit_ocr_engine_mode", "1")
	client.SetVariable("tessedit_pageseg_mode", "3")
	client.SetVariable("preserve_interword_spaces", "1")

	var sb strings.Builder
	for _, pageNum := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		img, err := doc.ImageDPI(pageNum, 300)
		if err != nil {
			s.logger.Warn("failed to render page for OCR",
				zap.String("file", path),
				zap.Int("page", pageNum+1),
				zap.Error(err))
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			s.logger.Warn("failed to encode page image", zap.Error(err))
			continue
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			s.logger.Warn("failed to set OCR image", zap.Error(err))
			continue
		}
		text, err := client.Text()
		if err != nil {
			s.logger.Warn("OCR failed",
				zap.String("file", path),
				zap.Int("page", pageNum+1),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("no text recognized in %s", filepath.Base(path))
	}
	return sb.String(), nil
}
