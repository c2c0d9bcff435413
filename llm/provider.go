package llm

import "fmt"

// Provider identifies an LLM backend. The catalogue below is read-only
// metadata; the active provider comes from settings.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderGroq   Provider = "groq"
)

type ProviderInfo struct {
	DisplayName         string   `json:"displayName"`
	RequiresAPIKey      bool     `json:"requiresApiKey"`
	BaseURLCustomizable bool     `json:"baseUrlCustomizable"`
	DefaultModel        string   `json:"defaultModel"`
	Models              []string `json:"models"`
	// Disabled providers stay in the catalogue but are rejected at
	// generation time.
	Disabled bool `json:"disabled"`
}

var catalogue = map[Provider]ProviderInfo{
	ProviderOpenAI: {
		DisplayName:         "OpenAI",
		RequiresAPIKey:      true,
		BaseURLCustomizable: true,
		DefaultModel:        "gpt-4o-mini",
		Models:              []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"},
	},
	ProviderGemini: {
		DisplayName:    "Gemini",
		RequiresAPIKey: true,
		DefaultModel:   "gemini-2.5-flash",
		Models:         []string{"gemini-2.5-flash", "gemini-2.5-pro"},
	},
	ProviderClaude: {
		DisplayName:    "Claude",
		RequiresAPIKey: true,
		DefaultModel:   "claude-3-5-sonnet-latest",
		Models:         []string{"claude-3-5-sonnet-latest", "claude-3-5-haiku-latest"},
	},
	ProviderGroq: {
		DisplayName:         "groq",
		RequiresAPIKey:      true,
		BaseURLCustomizable: false,
		DefaultModel:        "llama-3.3-70b-versatile",
		Models:              []string{"llama-3.3-70b-versatile"},
		Disabled:            true,
	},
}

// Catalogue returns metadata for every known provider, keyed by name.
func Catalogue() map[Provider]ProviderInfo {
	out := make(map[Provider]ProviderInfo, len(catalogue))
	for p, info := range catalogue {
		out[p] = info
	}
	return out
}

// Info returns catalogue metadata for a provider.
func Info(p Provider) (ProviderInfo, error) {
	info, ok := catalogue[p]
	if !ok {
		return ProviderInfo{}, fmt.Errorf("unknown provider %q", p)
	}
	return info, nil
}

// ParseProvider validates a provider name from settings or a request.
func ParseProvider(name string) (Provider, error) {
	p := Provider(name)
	if _, ok := catalogue[p]; !ok {
		return "", fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}
