// Package prompt builds the system prompt sent alongside extracted text.
// Templates are fixed per provider family and length; the OpenAI-style and
// Gemini-style variants encode the same length contract with different
// phrasing because the two families tune differently. Keep them duplicated.
package prompt

import (
	"fmt"
	"strings"

	"digestly/llm"
)

type ContentType string

const (
	VideoTranscript ContentType = "VIDEO_TRANSCRIPT"
	Article         ContentType = "ARTICLE"
	Text            ContentType = "TEXT"
	Document        ContentType = "DOCUMENT"
)

func (c ContentType) noun() string {
	switch c {
	case VideoTranscript:
		return "video transcript"
	case Article:
		return "article"
	case Document:
		return "document"
	default:
		return "text"
	}
}

func (c ContentType) focus() string {
	switch c {
	case VideoTranscript:
		return "Focus on the key topics and the speakers' points."
	case Article:
		return "Focus on the main arguments, key points, and conclusions."
	case Document:
		return "Focus on the core information and purpose of the document."
	default:
		return "Focus on the main ideas and any conclusion."
	}
}

var openaiTemplates = map[llm.SummaryLength]string{
	llm.LengthShort: "You are an expert summarization assistant. Summarize the %s%s in exactly 3 bullet points, " +
		"using no more than 20 words in total. %s Write the summary in %s. " +
		"Do not add headings, introductions, or commentary.",
	llm.LengthMedium: "You are an expert summarization assistant. Summarize the %s%s in no more than 60-70 words. %s " +
		"Write the summary in %s. Include the main point and any conclusion if relevant. " +
		"Do not add headings, introductions, or commentary.",
	llm.LengthLong: "You are an expert summarization assistant. Write a full narrative summary of the %s%s. %s " +
		"Write the summary in %s. Cover every major topic in order and include any conclusion. " +
		"Do not add headings, introductions, or commentary.",
}

var geminiTemplates = map[llm.SummaryLength]string{
	llm.LengthShort: "Summarize the following %s%s as 3 short bullet points with at most 20 words in total. %s " +
		"The summary must be written in %s. " +
		"Output only the bullet points, with no preamble and no markdown formatting.",
	llm.LengthMedium: "Summarize the following %s%s in at most 60-70 words. %s " +
		"The summary must be written in %s. State the main point and the conclusion if there is one. " +
		"Output only the summary, with no preamble and no markdown formatting.",
	llm.LengthLong: "Write a complete narrative summary of the following %s%s, covering all major topics and " +
		"including any conclusion. %s The summary must be written in %s. " +
		"Output only the summary, with no preamble and no markdown formatting.",
}

// Build is a pure function from (provider, content type, title, length,
// language) to a system prompt.
func Build(provider llm.Provider, contentType ContentType, title string, length llm.SummaryLength, language string) string {
	templates := openaiTemplates
	switch provider {
	case llm.ProviderGemini, llm.ProviderGroq:
		templates = geminiTemplates
	}

	template, ok := templates[length]
	if !ok {
		template = templates[llm.LengthMedium]
	}

	titled := ""
	if strings.TrimSpace(title) != "" {
		titled = fmt.Sprintf(" titled %q", title)
	}
	if language == "" {
		language = "the same language as the content"
	}

	return fmt.Sprintf(template, contentType.noun(), titled, contentType.focus(), language)
}
