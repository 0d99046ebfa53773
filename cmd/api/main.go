package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"

	"blog-api/internal/config"
	"blog-api/internal/http"
	"blog-api/internal/service"
	"blog-api/internal/storage"
	"blog-api/internal/tokenizer"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Select the search tokenizer
	var tok tokenizer.Tokenizer
	switch cfg.Tokenizer {
	case config.TokenizerTrigram:
		tok = tokenizer.NewTrigramTokenizer()
	default:
		tok, err = tokenizer.NewKagomeTokenizer()
		if err != nil {
			log.Fatalf("Failed to load kagome dictionary: %v", err)
		}
	}
	slog.Info("Tokenizer ready", "kind", cfg.Tokenizer)

	// Wire store and services
	entryRepo := storage.NewEntryRepo(db, tok, logger)
	entryService := service.NewEntryService(entryRepo, logger)

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		Entries: entryService,
		DB:      db,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
