package summary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/daulet/tokenizers"
	"go.uber.org/zap"

	"digestly/model"
)

// BudgetGate bounds the extracted text before it reaches the LLM: too
// little text cannot be summarized, too much blows the model context.
type BudgetGate struct {
	tokenizer *tokenizers.Tokenizer
	minChars  int
	maxTokens int
	logger    *zap.Logger
}

// NewBudgetGate loads the tokenizer from tokenizerFilePath when given;
// without one, token counts fall back to a rune-based estimate.
func NewBudgetGate(tokenizerFilePath string, minChars, maxTokens int, logger *zap.Logger) (*BudgetGate, error) {
	gate := &BudgetGate{minChars: minChars, maxTokens: maxTokens, logger: logger}
	if tokenizerFilePath != "" {
		tokenizer, err := tokenizers.FromFile(tokenizerFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer: %w", err)
		}
		gate.tokenizer = tokenizer
	}
	return gate, nil
}

func (g *BudgetGate) Close() {
	if g.tokenizer != nil {
		g.tokenizer.Close()
	}
}

// Check validates text against the configured bounds.
func (g *BudgetGate) Check(text string) error {
	trimmed := strings.TrimSpace(text)
	if g.minChars > 0 && utf8.RuneCountInString(trimmed) < g.minChars {
		return model.ErrTooShort.Wrap(fmt.Errorf("%d chars, need %d", utf8.RuneCountInString(trimmed), g.minChars))
	}
	if g.maxTokens <= 0 {
		return nil
	}

	count := g.countTokens(trimmed)
	if count > g.maxTokens {
		g.logger.Warn("input over token budget",
			zap.Int("tokens", count),
			zap.Int("budget", g.maxTokens))
		return model.ErrTooLong.Wrap(fmt.Errorf("%d tokens, budget %d", count, g.maxTokens))
	}
	return nil
}

func (g *BudgetGate) countTokens(text string) int {
	if g.tokenizer != nil {
		ids, _ := g.tokenizer.Encode(text, false)
		return len(ids)
	}
	// Rough estimate: one token per four characters.
	return utf8.RuneCountInString(text) / 4
}
