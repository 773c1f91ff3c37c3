package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsum/internal/api"
	"github.com/dgallion1/docsum/internal/backend"
	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/document"
	"github.com/dgallion1/docsum/internal/jobs"
	"github.com/dgallion1/docsum/internal/logging"
	"github.com/dgallion1/docsum/internal/summarize"
)

func main() {
	cfg, err := config.Load()
	log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the summarizer backend.
	llm, err := backend.New(cfg, log)
	if err != nil {
		log.Error("failed to create summarizer backend", "error", err)
		os.Exit(1)
	}
	split, err := chunker.SplitterByName(cfg.SentenceSplitter)
	if err != nil {
		log.Error("failed to load sentence splitter", "error", err)
		os.Exit(1)
	}
	p := summarize.New(llm, summarize.WithLogger(log), summarize.WithSplitter(split))

	// Initialize job queue.
	store := jobs.NewStore(cfg.JobTTL)
	worker := jobs.NewWorker(p, store, document.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, cfg.MinInputWords, log)
	queue := jobs.NewQueue(store, worker, cfg.WorkerCount, cfg.MaxQueueSize, log)
	queue.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(queue, p, llm, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.SummarizerTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		queue.Stop()
		llm.Close()
	}()

	log.Info("starting docsum",
		"port", cfg.Port,
		"provider", llm.Provider(),
		"model", llm.Model(),
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
