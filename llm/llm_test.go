package llm

import (
	"context"
	"strings"
	"testing"
)

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"openai", "gemini", "claude", "groq"} {
		if _, err := ParseProvider(name); err != nil {
			t.Errorf("ParseProvider(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseProvider("mystery"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestParseLength(t *testing.T) {
	testCases := []struct {
		input    string
		expected SummaryLength
		wantErr  bool
	}{
		{"SHORT", LengthShort, false},
		{"MEDIUM", LengthMedium, false},
		{"LONG", LengthLong, false},
		{"", LengthMedium, false},
		{"HUGE", "", true},
		{"short", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			length, err := ParseLength(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if length != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, length)
			}
		})
	}
}

func TestCatalogueDefaults(t *testing.T) {
	for provider, info := range Catalogue() {
		if info.DefaultModel == "" {
			t.Errorf("provider %s has no default model", provider)
		}
		found := false
		for _, m := range info.Models {
			if m == info.DefaultModel {
				found = true
			}
		}
		if !found {
			t.Errorf("provider %s default model %q not in model list", provider, info.DefaultModel)
		}
	}
}

func TestNewGeneratorRejectsDisabledProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Options{Provider: ProviderGroq, APIKey: "key"})
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("expected disabled-provider error, got %v", err)
	}
}

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Options{Provider: Provider("mystery")})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewGeneratorOpenAI(t *testing.T) {
	gen, err := NewGenerator(context.Background(), Options{Provider: ProviderOpenAI, APIKey: "key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen == nil {
		t.Fatal("expected a generator")
	}
}
