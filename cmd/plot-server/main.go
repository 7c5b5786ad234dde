// cmd/plot-server/main.go — HTTP sampling server for goplot
//
// Keeps one plot registry and answers viewport updates with sampled
// outputs as JSON, or as a PNG preview.
//
// Usage:
//
//	go run ./cmd/plot-server -port 8080 -source 'x^2#sin(x)'
//
// Sample endpoint:  POST /sample
// Preview endpoint: POST /png
// Health endpoint:  GET  /health
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/njchilds90/goplot"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	source := flag.String("source", "x", "Initial plot source")
	config := flag.String("config", "", "YAML options file")
	verbose := flag.Bool("v", false, "Log debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	goplot.SetLogger(logger)

	if err := run(logger, *port, *source, *config); err != nil {
		logger.Error("plot-server", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, port int, source, config string) error {
	opts := goplot.DefaultOptions()
	if config != "" {
		var err error
		if opts, err = goplot.LoadOptions(config); err != nil {
			return err
		}
	}
	reg, err := goplot.NewRegistry(source, opts, nil, nil)
	if err != nil && !errors.Is(err, goplot.ErrNoPlots) {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	logger.Info("goplot server listening", "addr", addr)
	logger.Info("  POST /sample — sample the current plots")
	logger.Info("  POST /png    — render the current plots")
	logger.Info("  GET  /health — health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(goplot.NewCoordinator(reg), logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
