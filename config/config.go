// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort  int    `yaml:"app_port"`
	ProxyURL string `yaml:"proxy_url"`

	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`

	Length              string `yaml:"length"`
	Language            string `yaml:"language"`
	UseOriginalLanguage bool   `yaml:"use_original_language"`

	TokenizerPath string `yaml:"tokenizer_path"`
	MaxTokens     int    `yaml:"max_tokens"`
	MinChars      int    `yaml:"min_chars"`

	HistoryDBPath string `yaml:"history_db_path"`

	// EnableBrowser turns on the headless-browser fallback for article
	// pages that render their content with JavaScript.
	EnableBrowser bool `yaml:"enable_browser"`

	BiliBili BiliBiliSession `yaml:"bilibili"`
}

// BiliBiliSession holds the SESSDATA cookie used for subtitle access. An
// expired token reads as absent.
type BiliBiliSession struct {
	SessData  string    `yaml:"sessdata"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

func (s BiliBiliSession) SessionToken() (string, bool) {
	if s.SessData == "" {
		return "", false
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return "", false
	}
	return s.SessData, true
}

// Load reads the YAML file named by CONFIG_FILE (default config.yaml, which
// may be absent), applies environment overrides, then validates.
func Load() (*Config, error) {
	cfg := &Config{}

	path := getEnv("CONFIG_FILE", "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.AppPort = port
		}
	}
	c.ProxyURL = getEnv("PROXY_URL", c.ProxyURL)
	c.Provider = getEnv("LLM_PROVIDER", c.Provider)
	c.Model = getEnv("LLM_MODEL", c.Model)
	c.APIKey = getEnv("LLM_API_KEY", c.APIKey)
	c.BaseURL = getEnv("LLM_BASE_URL", c.BaseURL)
	c.Length = getEnv("SUMMARY_LENGTH", c.Length)
	c.Language = getEnv("SUMMARY_LANGUAGE", c.Language)
	c.TokenizerPath = getEnv("TOKENIZER_PATH", c.TokenizerPath)
	c.HistoryDBPath = getEnv("HISTORY_DB_PATH", c.HistoryDBPath)
	c.BiliBili.SessData = getEnv("BILIBILI_SESSDATA", c.BiliBili.SessData)
	if v := os.Getenv("BILIBILI_SESSDATA_EXPIRES"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			c.BiliBili.ExpiresAt = t
		}
	}
	if v := os.Getenv("USE_ORIGINAL_LANGUAGE"); v != "" {
		c.UseOriginalLanguage = v == "true" || v == "1"
	}
	if v := os.Getenv("ENABLE_BROWSER"); v != "" {
		c.EnableBrowser = v == "true" || v == "1"
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

// Validate fills defaults and rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.AppPort == 0 {
		c.AppPort = 8080
	}
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Length == "" {
		c.Length = "MEDIUM"
	}
	if c.Language == "" {
		c.Language = "English"
	}
	if c.HistoryDBPath == "" {
		c.HistoryDBPath = "data/history.db"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 120000
	}
	if c.MinChars == 0 {
		c.MinChars = 100
	}
	switch c.Length {
	case "SHORT", "MEDIUM", "LONG":
	default:
		return fmt.Errorf("invalid summary length %q", c.Length)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
