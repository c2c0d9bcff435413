package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator is the single narrow interface every provider sits behind:
// send a system prompt plus text, get back the model output or an error.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, text string) (string, error)
}

// Options selects and configures a provider for one request.
type Options struct {
	Provider Provider
	APIKey   string
	// BaseURL overrides the provider endpoint where the catalogue allows it.
	BaseURL string
	// Model overrides the catalogue default model.
	Model string
}

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewGenerator builds a Generator for the given options. Disabled providers
// are rejected here rather than at call time.
func NewGenerator(ctx context.Context, opts Options) (Generator, error) {
	info, err := Info(opts.Provider)
	if err != nil {
		return nil, err
	}
	if info.Disabled {
		return nil, fmt.Errorf("provider %s is disabled", info.DisplayName)
	}

	model := opts.Model
	if model == "" {
		model = info.DefaultModel
	}

	switch opts.Provider {
	case ProviderOpenAI:
		clientOpts := []openai.Option{
			openai.WithToken(opts.APIKey),
			openai.WithModel(model),
		}
		if opts.BaseURL != "" && info.BaseURLCustomizable {
			clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
		}
		client, err := openai.New(clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return &langchainGenerator{model: client}, nil

	case ProviderGroq:
		client, err := openai.New(
			openai.WithToken(opts.APIKey),
			openai.WithModel(model),
			openai.WithBaseURL(groqBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create groq client: %w", err)
		}
		return &langchainGenerator{model: client}, nil

	case ProviderGemini:
		client, err := googleai.New(ctx,
			googleai.WithAPIKey(opts.APIKey),
			googleai.WithDefaultModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return &langchainGenerator{model: client}, nil

	case ProviderClaude:
		client, err := anthropic.New(
			anthropic.WithToken(opts.APIKey),
			anthropic.WithModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create claude client: %w", err)
		}
		return &langchainGenerator{model: client}, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
}

type langchainGenerator struct {
	model llms.Model
}

func (g *langchainGenerator) Generate(ctx context.Context, systemPrompt, text string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	resp, err := g.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return resp.Choices[0].Content, nil
}
