package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/paisawise/pricewatch/api"
	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/engine"
	"github.com/paisawise/pricewatch/procs"
	"github.com/paisawise/pricewatch/sites"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pricewatch starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"max_retries", cfg.Retry.MaxRetries,
		"default_concurrent", cfg.Batch.DefaultConcurrent,
	)

	// ── 3. Load the selector catalog ────────────────────────────────
	var catalog *sites.Catalog
	var err error
	if path := config.SelectorsFile(); path != "" {
		catalog, err = sites.LoadFile(path)
		slog.Info("selector catalog loaded from file", "path", path)
	} else {
		catalog, err = sites.Load()
	}
	if err != nil {
		slog.Error("failed to load selector catalog", "error", err)
		os.Exit(1)
	}

	// ── 4. Build backends and the extraction pipeline ───────────────
	fast := browser.NewRodBackend(browser.RodOptions{
		Headless:   cfg.Browser.Headless,
		NoSandbox:  cfg.Browser.NoSandbox,
		BrowserBin: cfg.Browser.BrowserBin,
	})
	stealth := browser.NewRodBackend(browser.RodOptions{
		Headless:   true,
		NoSandbox:  cfg.Browser.NoSandbox,
		BrowserBin: cfg.Browser.BrowserBin,
		Stealth:    true,
	})
	stealthVD := browser.NewRodBackend(browser.RodOptions{
		Headless:          true,
		NoSandbox:         cfg.Browser.NoSandbox,
		BrowserBin:        cfg.Browser.BrowserBin,
		Stealth:           true,
		VirtualDisplay:    cfg.Browser.VirtualDisplay,
		UseVirtualDisplay: true,
	})

	dispatcher := engine.NewDispatcher(
		fast, stealth, stealthVD,
		catalog,
		engine.NewNavigator(),
		engine.NewResolver(),
	)
	retrier := engine.NewRetrier(dispatcher, cfg.Retry)

	// ── 5. Start the orphan browser sweeper ─────────────────────────
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go procs.NewSweeper(5 * time.Minute).Run(sweepCtx)

	// ── 6. Start the HTTP server ────────────────────────────────────
	router := api.NewRouter(retrier, cfg, time.Now())
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight extractions a window to finish; their per-attempt
	// deadlines will fire first in the worst case.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	}
	slog.Info("shutdown complete")
}

// initLogger configures the process-wide slog default from LOG_LEVEL and
// DEBUG. DEBUG forces a human-readable text handler at debug level.
func initLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Debug {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
