package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pdfsplit/internal/api"
	"github.com/dgallion1/pdfsplit/internal/config"
	"github.com/dgallion1/pdfsplit/internal/detect"
	"github.com/dgallion1/pdfsplit/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// AI detection is optional; the ai mode is rejected when unconfigured.
	var gemini *detect.GeminiClient
	if cfg.GeminiAPIKey != "" {
		gemini = detect.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		log.Warn("GEMINI_API_KEY not set; ai detection disabled")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, gemini, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, gemini, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if gemini != nil {
			gemini.Close()
		}
	}()

	log.Info("starting pdfsplit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
