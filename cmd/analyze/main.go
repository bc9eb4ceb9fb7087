// Package main provides an offline analyzer: run the full pipeline on a
// local export archive and print the result as JSON, no server needed.
package main

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
	"github.com/reelwrapped/reelwrapped-server/internal/enrich"
	"github.com/reelwrapped/reelwrapped-server/internal/progress"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
	"github.com/reelwrapped/reelwrapped-server/internal/tmdb"
)

// printedResult captures the stored result so it can be written to stdout.
type printedResult struct {
	result *domain.AnalysisResult
}

func (p *printedResult) PutResult(result domain.AnalysisResult) error {
	p.result = &result
	return nil
}

func main() {
	zipPath := flag.String("zip", "", "Path to the Letterboxd export ZIP")
	apiKey := flag.String("api-key", os.Getenv("TMDB_API_KEY"), "TMDB v3 API key")
	cacheDir := flag.String("cache", "", "TMDB response cache directory (default: <tmpdir>/reelwrapped-cache)")
	workers := flag.Int("workers", 20, "Concurrent TMDB fetches")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *zipPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -zip <export.zip> [-api-key KEY]")
		os.Exit(2)
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "TMDB API key required (-api-key or TMDB_API_KEY)")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *cacheDir == "" {
		*cacheDir = filepath.Join(os.TempDir(), "reelwrapped-cache")
	}
	cache, err := tmdb.NewCache(*cacheDir, logger)
	if err != nil {
		logger.Error("failed to create cache", "error", err)
		os.Exit(1)
	}

	client := tmdb.New(tmdb.Config{
		APIKey:        *apiKey,
		MaxConcurrent: *workers,
	}, cache, logger)

	enricher := enrich.New(client, client, *workers, logger)
	tracker := progress.NewTracker(nil, logger)
	results := &printedResult{}

	workDir, err := os.MkdirTemp("", "reelwrapped-analyze-*")
	if err != nil {
		logger.Error("failed to create work dir", "error", err)
		os.Exit(1)
	}
	defer os.RemoveAll(workDir)

	svc := service.New(enricher, results, tracker, workDir, logger)

	data, err := os.ReadFile(*zipPath)
	if err != nil {
		logger.Error("failed to read export", "error", err)
		os.Exit(1)
	}

	if err := svc.Analyze(context.Background(), service.SessionID(data), *zipPath); err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if err := json.MarshalWrite(os.Stdout, results.result, jsontext.WithIndent("  ")); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println()
}
