package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnucash-web/gnucash-web/internal/gnucash"
	"github.com/gnucash-web/gnucash-web/internal/ledger"
	"github.com/gnucash-web/gnucash-web/internal/transport/web"
	"github.com/gnucash-web/gnucash-web/internal/transport/web/handler"
	"github.com/gnucash-web/gnucash-web/pkg/config"
	"github.com/gnucash-web/gnucash-web/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (console plus fixed-path log file)
	log, closeLog, logErr := logger.NewWithFile(cfg.Env, cfg.LogFile)
	defer closeLog()
	if logErr != nil {
		log.Warn("Could not open log file, logging to stdout only",
			"path", cfg.LogFile,
			"error", logErr,
		)
	}

	log.Info("Starting GnuCash web server",
		"env", cfg.Env,
		"port", cfg.Port,
		"book", cfg.BookPath(),
	)
	if cfg.UsingDefaultSecret() {
		log.Warn("SECRET_KEY is not set, using the built-in fallback secret")
	}

	// The server cannot function without its single book file: verify it
	// opens before serving anything.
	book, err := gnucash.Open(cfg.BookPath(), gnucash.Options{ReadOnly: true, IgnoreLock: true})
	if err != nil {
		log.Fatal("Cannot open GnuCash book", "path", cfg.BookPath(), "error", err)
	}
	if err := book.Close(); err != nil {
		log.Fatal("Cannot close GnuCash book after verification", "error", err)
	}
	log.Info("GnuCash book verified")

	// Initialize the ledger service and HTTP handlers
	svc := ledger.NewService(ledger.Config{BookPath: cfg.BookPath()}, log)
	flash := handler.NewFlashSigner(cfg.SecretKey)
	pages := handler.NewPages(svc, flash, cfg.NumTransactions, log)

	allowedOrigins := []string{"*"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = []string{origins}
	}

	r := web.NewRouter(web.Config{
		Logger:         log,
		Pages:          pages,
		AllowedOrigins: allowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server shutdown failed", "error", err)
	}

	log.Info("Server stopped gracefully")
}
