package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"digestly/api"
	"digestly/config"
	"digestly/docservice"
	"digestly/extract"
	"digestly/fetch"
	"digestly/history"
	"digestly/llm"
	"digestly/summary"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// HTTP
	// =========
	httpClient, err := fetch.NewHttpClient(cfg.ProxyURL, 30*time.Second)
	if err != nil {
		log.Fatalf("Failed to create HTTP client: %v", err)
	}

	// =========
	// Chromedp
	// =========
	var browser *fetch.Browser
	if cfg.EnableBrowser {
		browser = fetch.NewBrowser(logger, cfg.ProxyURL)
	}

	// =========
	// Extractors
	// =========
	youtube := extract.NewYouTubeExtractor(httpClient, logger)
	bilibili := extract.NewBiliBiliExtractor(httpClient, cfg.BiliBili, logger)
	article := extract.NewArticleExtractor(httpClient, browser, logger)
	document := extract.NewDocumentExtractor(docservice.New(logger), logger)

	// =========
	// Budget gate
	// =========
	budget, err := summary.NewBudgetGate(cfg.TokenizerPath, cfg.MinChars, cfg.MaxTokens, logger)
	if err != nil {
		log.Fatalf("Failed to initialize budget gate: %v", err)
	}
	defer budget.Close()

	// =========
	// Orchestrator
	// =========
	orchestrator := summary.NewOrchestrator(
		youtube,
		bilibili,
		article,
		document,
		llm.NewGenerator,
		budget,
		logger,
	)

	// =========
	// History store
	// =========
	store := &history.Store{DBPath: cfg.HistoryDBPath}
	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer store.Close()

	// =========
	// API server
	// =========
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		log.Fatalf("Invalid provider: %v", err)
	}
	length, err := llm.ParseLength(cfg.Length)
	if err != nil {
		log.Fatalf("Invalid summary length: %v", err)
	}
	defaults := summary.Settings{
		Provider:            provider,
		APIKey:              cfg.APIKey,
		BaseURL:             cfg.BaseURL,
		Model:               cfg.Model,
		Length:              length,
		UseOriginalLanguage: cfg.UseOriginalLanguage,
		DisplayLanguage:     cfg.Language,
	}
	server := api.NewServer(orchestrator, store, defaults, cfg.AppPort, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
