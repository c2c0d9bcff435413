// Package summary runs the summarization pipeline: classify the input,
// extract normalized content, build a prompt, call the LLM, classify the
// outcome.
package summary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"digestly/extract"
	"digestly/llm"
	"digestly/model"
	"digestly/prompt"
	"digestly/source"
)

// Settings is an explicit snapshot of the caller's configuration for one
// request. The orchestrator holds no mutable state of its own.
type Settings struct {
	Provider            llm.Provider
	APIKey              string
	BaseURL             string
	Model               string
	Length              llm.SummaryLength
	UseOriginalLanguage bool
	// DisplayLanguage names the caller's configured language in English,
	// e.g. "German"; used when UseOriginalLanguage is off.
	DisplayLanguage string
}

// Request carries the raw input for one summarization.
type Request struct {
	Input string
	// Document, when set, marks the input as a document reference.
	Document *source.DocumentHint
}

// GeneratorFactory builds an LLM generator for one request's options.
type GeneratorFactory func(ctx context.Context, opts llm.Options) (llm.Generator, error)

type Orchestrator struct {
	youtube      *extract.YouTubeExtractor
	bilibili     *extract.BiliBiliExtractor
	article      *extract.ArticleExtractor
	document     *extract.DocumentExtractor
	newGenerator GeneratorFactory
	budget       *BudgetGate
	logger       *zap.Logger
}

func NewOrchestrator(
	youtube *extract.YouTubeExtractor,
	bilibili *extract.BiliBiliExtractor,
	article *extract.ArticleExtractor,
	document *extract.DocumentExtractor,
	newGenerator GeneratorFactory,
	budget *BudgetGate,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		youtube:      youtube,
		bilibili:     bilibili,
		article:      article,
		document:     document,
		newGenerator: newGenerator,
		budget:       budget,
		logger:       logger,
	}
}

// Run executes one summarization request as a strictly sequential pipeline.
// Nothing is retried; the first failure is terminal and comes back both as
// the error and as a result with IsError set and the classified kind.
func (o *Orchestrator) Run(ctx context.Context, req Request, settings Settings) (*model.SummaryResult, error) {
	src := source.Classify(req.Input, req.Document)

	result, err := o.run(ctx, src, settings)
	if err != nil {
		kind := model.AsSummaryError(err)
		o.logger.Warn("summarization failed",
			zap.String("kind", kind.Kind),
			zap.Error(err))
		return &model.SummaryResult{
			SourceLink:     src.URL,
			IsYoutubeLink:  src.IsYouTube(),
			IsBiliBiliLink: src.IsBiliBili(),
			Length:         settings.Length,
			IsError:        true,
			ErrorKind:      kind.Kind,
		}, kind
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, src source.ContentSource, settings Settings) (*model.SummaryResult, error) {
	if src.Kind == source.KindNone {
		return nil, model.ErrNoContent
	}
	if src.Kind == source.KindArticle || src.Kind == source.KindVideo {
		parsed, err := url.Parse(src.URL)
		if err != nil || parsed.Hostname() == "" {
			return nil, model.ErrInvalidLink
		}
	}
	if settings.APIKey == "" {
		return nil, model.ErrNoKey
	}

	content, contentType, err := o.extract(ctx, src)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content.Text) == "" {
		return nil, model.ErrNoContent
	}
	if o.budget != nil {
		if err := o.budget.Check(content.Text); err != nil {
			return nil, err
		}
	}

	language := settings.DisplayLanguage
	if settings.UseOriginalLanguage {
		language = "the same language as the content"
	}
	systemPrompt := prompt.Build(settings.Provider, contentType, content.Title, settings.Length, language)

	generator, err := o.newGenerator(ctx, llm.Options{
		Provider: settings.Provider,
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.Model,
	})
	if err != nil {
		return nil, err
	}

	output, err := generator.Generate(ctx, systemPrompt, content.Text)
	if err != nil {
		return nil, classifyProviderError(err)
	}
	// Some adapters report failures in-band with an Error: prefix rather
	// than an error value.
	if strings.HasPrefix(output, "Error:") {
		return nil, model.Classify(output)
	}

	return &model.SummaryResult{
		Title:          content.Title,
		Author:         content.Author,
		Summary:        strings.TrimSpace(output),
		SourceLink:     src.URL,
		IsYoutubeLink:  src.IsYouTube(),
		IsBiliBiliLink: src.IsBiliBili(),
		Length:         settings.Length,
	}, nil
}

func (o *Orchestrator) extract(ctx context.Context, src source.ContentSource) (*extract.Content, prompt.ContentType, error) {
	switch src.Kind {
	case source.KindVideo:
		if src.IsBiliBili() {
			content, err := o.bilibili.Extract(ctx, src.URL)
			return content, prompt.VideoTranscript, err
		}
		content, err := o.youtube.Extract(ctx, src.URL, "en")
		return content, prompt.VideoTranscript, err

	case source.KindArticle:
		content, err := o.article.Extract(ctx, src.URL)
		return content, prompt.Article, err

	case source.KindDocument:
		content, err := o.document.Extract(ctx, src.Filename, src.URI)
		return content, prompt.Document, err

	case source.KindText:
		return &extract.Content{Title: "Text Input", Author: "Unknown", Text: src.Content}, prompt.Text, nil

	default:
		return nil, prompt.Text, model.ErrNoContent
	}
}

// classifyProviderError maps an adapter error onto the taxonomy. Timeouts
// and cancellation read as connectivity trouble; everything else goes
// through the substring classifier on the message.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ErrNoInternet.Wrap(err)
	}
	var se *model.SummaryError
	if errors.As(err, &se) {
		return se
	}
	return model.Classify(fmt.Sprintf("%v", err))
}
