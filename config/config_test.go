package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.AppPort)
	}
	if cfg.Provider != "openai" || cfg.Length != "MEDIUM" || cfg.Language != "English" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HistoryDBPath == "" || cfg.MaxTokens == 0 || cfg.MinChars == 0 {
		t.Errorf("missing defaults: %+v", cfg)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app_port: 9001
provider: gemini
length: SHORT
bilibili:
  sessdata: file-token
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("BILIBILI_SESSDATA", "env-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppPort != 9001 || cfg.Length != "SHORT" {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if cfg.Provider != "claude" {
		t.Errorf("env override not applied, got %q", cfg.Provider)
	}
	if cfg.BiliBili.SessData != "env-token" {
		t.Errorf("env sessdata not applied, got %q", cfg.BiliBili.SessData)
	}
}

func TestLoadRejectsInvalidLength(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("SUMMARY_LENGTH", "HUGE")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid length")
	}
}

func TestBiliBiliSessionToken(t *testing.T) {
	testCases := []struct {
		name    string
		session BiliBiliSession
		ok      bool
	}{
		{"Empty", BiliBiliSession{}, false},
		{"Valid", BiliBiliSession{SessData: "token"}, true},
		{"ValidWithFutureExpiry", BiliBiliSession{SessData: "token", ExpiresAt: time.Now().Add(time.Hour)}, true},
		{"Expired", BiliBiliSession{SessData: "token", ExpiresAt: time.Now().Add(-time.Hour)}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := tc.session.SessionToken()
			if ok != tc.ok {
				t.Errorf("expected ok %v, got %v", tc.ok, ok)
			}
			if ok && token == "" {
				t.Error("usable session returned empty token")
			}
		})
	}
}
