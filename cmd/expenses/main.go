package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expenses/internal/amqp"
	"expenses/internal/config"
	apphttp "expenses/internal/http"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/tables"
	"expenses/internal/tables/google"
	"expenses/internal/tables/memory"
	"expenses/internal/tables/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.ParseLevel(os.Getenv("LOG_LEVEL")))
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var store tables.Store
	switch cfg.DataBackend {
	case "sheets":
		s, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets backend", "error", err)
			os.Exit(1)
		}
		store = s
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer s.Close()
		store = s
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store = memory.New()
		logger.Info("Initialized memory backend")
	}

	// Event publishing is best effort: a missing broker degrades to no events.
	var publisher *amqp.Publisher
	if cfg.AMQPURL != "" {
		p, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP publisher unavailable, continuing without events", "error", err)
		} else {
			publisher = p
			logger.Info("Initialized AMQP publisher", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	resolver := ledger.NewResolver(store)
	entries := services.NewEntryService(ledger.NewEngine(resolver), publisher)
	defer func() {
		if err := entries.Close(); err != nil {
			slog.Error("Failed to close entry service", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, entries, ledger.NewAggregator(resolver), cfg.DefaultCategory)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting expenses server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
