package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"digestly/extract"
	"digestly/llm"
	"digestly/model"
)

type fakeGenerator struct {
	output string
	err    error

	systemPrompt string
	text         string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, text string) (string, error) {
	f.systemPrompt = systemPrompt
	f.text = text
	return f.output, f.err
}

type noSession struct{}

func (noSession) SessionToken() (string, bool) { return "", false }

func testOrchestrator(gen *fakeGenerator, factoryErr error) *Orchestrator {
	budget, _ := NewBudgetGate("", 0, 0, zap.NewNop())
	offline := &http.Client{Transport: failingTransport{}}
	return NewOrchestrator(
		extract.NewYouTubeExtractor(offline, zap.NewNop()),
		extract.NewBiliBiliExtractor(offline, noSession{}, zap.NewNop()),
		extract.NewArticleExtractor(offline, nil, zap.NewNop()),
		extract.NewDocumentExtractor(nil, zap.NewNop()),
		func(_ context.Context, _ llm.Options) (llm.Generator, error) {
			if factoryErr != nil {
				return nil, factoryErr
			}
			return gen, nil
		},
		budget,
		zap.NewNop(),
	)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("no network in test: %s", req.URL)
}

func testSettings() Settings {
	return Settings{
		Provider:        llm.ProviderOpenAI,
		APIKey:          "key",
		Length:          llm.LengthMedium,
		DisplayLanguage: "English",
	}
}

func TestRunTextInput(t *testing.T) {
	gen := &fakeGenerator{output: "  a concise summary  "}
	o := testOrchestrator(gen, nil)

	result, err := o.Run(context.Background(), Request{Input: "some text worth summarizing"}, testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "a concise summary" {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if result.Title != "Text Input" || result.Author != "Unknown" {
		t.Errorf("unexpected metadata: %+v", result)
	}
	if result.IsError || result.IsYoutubeLink || result.IsBiliBiliLink {
		t.Errorf("unexpected flags: %+v", result)
	}
	if gen.text != "some text worth summarizing" {
		t.Errorf("generator got %q", gen.text)
	}
	if gen.systemPrompt == "" {
		t.Error("generator called without a system prompt")
	}
}

func TestRunGateOrdering(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		apiKey   string
		expected error
	}{
		{"BlankInput", "   ", "key", model.ErrNoContent},
		{"BlankInputBeforeKeyCheck", "", "", model.ErrNoContent},
		{"HostlessURL", "https:///nohost", "key", model.ErrInvalidLink},
		{"InvalidLinkBeforeKeyCheck", "https:///nohost", "", model.ErrInvalidLink},
		{"MissingKey", "some text", "", model.ErrNoKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := testOrchestrator(&fakeGenerator{output: "x"}, nil)
			settings := testSettings()
			settings.APIKey = tc.apiKey

			result, err := o.Run(context.Background(), Request{Input: tc.input}, settings)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
			if result == nil || !result.IsError {
				t.Fatalf("expected error result, got %+v", result)
			}
			want := model.AsSummaryError(tc.expected).Kind
			if result.ErrorKind != want {
				t.Errorf("expected kind %q, got %q", want, result.ErrorKind)
			}
		})
	}
}

func TestRunBiliBiliWithoutSession(t *testing.T) {
	// The transport fails every request, so this passing proves the login
	// gate fires before any network call.
	o := testOrchestrator(&fakeGenerator{output: "x"}, nil)

	result, err := o.Run(context.Background(),
		Request{Input: "https://www.bilibili.com/video/BV1GJ411x7h7"}, testSettings())
	if !errors.Is(err, model.ErrBiliBiliLoginNeeded) {
		t.Fatalf("expected login-needed error, got %v", err)
	}
	if !result.IsBiliBiliLink || result.IsYoutubeLink {
		t.Errorf("unexpected link flags: %+v", result)
	}
}

func TestRunErrorPrefixedOutput(t *testing.T) {
	gen := &fakeGenerator{output: "Error: Rate limit exceeded, try again later"}
	o := testOrchestrator(gen, nil)

	result, err := o.Run(context.Background(), Request{Input: "some text"}, testSettings())
	if !errors.Is(err, model.ErrRateLimit) {
		t.Fatalf("expected rate-limit error, got %v", err)
	}
	if !result.IsError || result.ErrorKind != model.ErrRateLimit.Kind {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRunGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("401: incorrect API key provided")}
	o := testOrchestrator(gen, nil)

	_, err := o.Run(context.Background(), Request{Input: "some text"}, testSettings())
	if !errors.Is(err, model.ErrIncorrectKey) {
		t.Fatalf("expected incorrect-key error, got %v", err)
	}
}

func TestRunFactoryFailure(t *testing.T) {
	o := testOrchestrator(nil, fmt.Errorf("provider groq is disabled"))

	result, err := o.Run(context.Background(), Request{Input: "some text"}, testSettings())
	if err == nil {
		t.Fatal("expected error")
	}
	if !result.IsError {
		t.Errorf("expected error result, got %+v", result)
	}
}

func TestRunTimeoutReadsAsNoInternet(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("request: %w", context.DeadlineExceeded)}
	o := testOrchestrator(gen, nil)

	_, err := o.Run(context.Background(), Request{Input: "some text"}, testSettings())
	if !errors.Is(err, model.ErrNoInternet) {
		t.Fatalf("expected no-internet error, got %v", err)
	}
}

func TestInflightCancelsPrevious(t *testing.T) {
	var inflight Inflight

	ctx1, done1 := inflight.Begin(context.Background())
	ctx2, done2 := inflight.Begin(context.Background())
	defer done2()

	select {
	case <-ctx1.Done():
	default:
		t.Error("first context should be cancelled by the second Begin")
	}
	if ctx2.Err() != nil {
		t.Error("second context should still be live")
	}

	// A stale cleanup must not cancel the newer request.
	done1()
	if ctx2.Err() != nil {
		t.Error("stale cleanup cancelled the newer context")
	}
}
