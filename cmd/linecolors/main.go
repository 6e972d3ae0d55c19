package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/linecolors/internal/api"
	"github.com/dgallion1/linecolors/internal/config"
	"github.com/dgallion1/linecolors/internal/pipeline"
	"github.com/dgallion1/linecolors/internal/report"
	"github.com/dgallion1/linecolors/internal/resource"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	serve := flag.String("serve", "", "serve the result on this address after the run")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		slog.Error("env file", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if *serve != "" {
		cfg.ServeAddr = *serve
	}
	log := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := pipeline.NewRunner(cfg, resource.NewLoader(cfg.ResourceDir), log)
	res, err := runner.Run(ctx)
	if err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(cfg.OutputFile, res.CSV, 0o644); err != nil {
		log.Error("write output", "file", cfg.OutputFile, "error", err)
		os.Exit(1)
	}
	log.Info("output written", "file", cfg.OutputFile, "rows", res.Rows)

	if cfg.DocxFile != "" {
		if err := writeDOCX(cfg.DocxFile, res); err != nil {
			log.Error("write docx summary", "file", cfg.DocxFile, "error", err)
			os.Exit(1)
		}
		log.Info("docx summary written", "file", cfg.DocxFile)
	}

	if err := res.Diagnostics.Print(os.Stdout, cfg.NetworkName); err != nil {
		log.Error("print diagnostics", "error", err)
		os.Exit(1)
	}

	if cfg.ServeAddr == "" {
		return
	}
	if err := serveResult(ctx, cfg.ServeAddr, res, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func writeDOCX(path string, res *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteDOCX(f, res.Network, res.Lines, res.Diagnostics); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// serveResult blocks until ctx is cancelled, then shuts the server down.
func serveResult(ctx context.Context, addr string, res *pipeline.Result, log *slog.Logger) error {
	srv, err := api.NewServer(res, log)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving result", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
