package prompt

import (
	"strings"
	"testing"

	"digestly/llm"
)

func TestBuildLengthVariants(t *testing.T) {
	testCases := []struct {
		name     string
		length   llm.SummaryLength
		expected string
	}{
		{"Short", llm.LengthShort, "3 bullet points"},
		{"Medium", llm.LengthMedium, "60-70 words"},
		{"Long", llm.LengthLong, "full narrative summary"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prompt := Build(llm.ProviderOpenAI, Article, "My Article", tc.length, "English")
			if !strings.Contains(prompt, tc.expected) {
				t.Errorf("expected %q in prompt: %q", tc.expected, prompt)
			}
		})
	}
}

func TestBuildProviderFamilies(t *testing.T) {
	openai := Build(llm.ProviderOpenAI, Article, "T", llm.LengthMedium, "English")
	claude := Build(llm.ProviderClaude, Article, "T", llm.LengthMedium, "English")
	gemini := Build(llm.ProviderGemini, Article, "T", llm.LengthMedium, "English")
	groq := Build(llm.ProviderGroq, Article, "T", llm.LengthMedium, "English")

	if openai != claude {
		t.Error("claude should use the openai-style template")
	}
	if gemini != groq {
		t.Error("groq should use the gemini-style template")
	}
	if openai == gemini {
		t.Error("openai and gemini templates should differ")
	}
}

func TestBuildContentTypes(t *testing.T) {
	testCases := []struct {
		contentType ContentType
		noun        string
	}{
		{VideoTranscript, "video transcript"},
		{Article, "article"},
		{Text, "text"},
		{Document, "document"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.contentType), func(t *testing.T) {
			prompt := Build(llm.ProviderOpenAI, tc.contentType, "", llm.LengthMedium, "English")
			if !strings.Contains(prompt, tc.noun) {
				t.Errorf("expected noun %q in prompt: %q", tc.noun, prompt)
			}
		})
	}
}

func TestBuildTitleAndLanguage(t *testing.T) {
	withTitle := Build(llm.ProviderOpenAI, Article, "Go Modules", llm.LengthMedium, "German")
	if !strings.Contains(withTitle, `titled "Go Modules"`) {
		t.Errorf("expected quoted title in prompt: %q", withTitle)
	}
	if !strings.Contains(withTitle, "Write the summary in German.") {
		t.Errorf("expected language directive in prompt: %q", withTitle)
	}

	withoutTitle := Build(llm.ProviderOpenAI, Article, "  ", llm.LengthMedium, "English")
	if strings.Contains(withoutTitle, "titled") {
		t.Errorf("blank title should be omitted: %q", withoutTitle)
	}

	originalLanguage := Build(llm.ProviderOpenAI, Article, "", llm.LengthMedium, "")
	if !strings.Contains(originalLanguage, "the same language as the content") {
		t.Errorf("expected original-language directive: %q", originalLanguage)
	}
}
