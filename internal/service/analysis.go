// Package service wires the analysis pipeline together: extract the
// export, enrich against TMDB, compute statistics and insights, and
// persist the result under the session ID.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
	"github.com/reelwrapped/reelwrapped-server/internal/enrich"
	"github.com/reelwrapped/reelwrapped-server/internal/insights"
	"github.com/reelwrapped/reelwrapped-server/internal/letterboxd"
	"github.com/reelwrapped/reelwrapped-server/internal/progress"
	"github.com/reelwrapped/reelwrapped-server/internal/stats"
)

// ResultStore persists completed analyses.
type ResultStore interface {
	PutResult(result domain.AnalysisResult) error
}

// SessionID derives the session identifier from the uploaded archive
// bytes. Content-addressed: re-uploading the same export lands on the
// same session.
func SessionID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AnalysisService runs one full analysis per uploaded export.
type AnalysisService struct {
	enricher *enrich.Enricher
	results  ResultStore
	tracker  *progress.Tracker
	workDir  string
	logger   *slog.Logger
}

// New creates the service. workDir is where export archives are staged
// during extraction.
func New(enricher *enrich.Enricher, results ResultStore, tracker *progress.Tracker, workDir string, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		enricher: enricher,
		results:  results,
		tracker:  tracker,
		workDir:  workDir,
		logger:   logger,
	}
}

// Tracker exposes the session tracker for status polling.
func (s *AnalysisService) Tracker() *progress.Tracker {
	return s.tracker
}

// Analyze runs the full pipeline for one uploaded export. The session
// is registered before any work starts, so status polling works from the
// moment the upload returns. Errors are reflected in the session state
// and returned for logging; individual film failures never surface here.
func (s *AnalysisService) Analyze(ctx context.Context, sessionID, zipPath string) error {
	session := s.tracker.Start(sessionID)
	logger := s.logger.With("session_id", sessionID)

	stagingDir := filepath.Join(s.workDir, sessionID)
	defer os.RemoveAll(stagingDir)

	session.Report(domain.StageExtracting, "Extracting ZIP file...", 0, 1)
	export, err := letterboxd.Load(zipPath, stagingDir, logger)
	if err != nil {
		logger.Error("export load failed", "error", err)
		session.Fail(err.Error())
		return err
	}
	session.Report(domain.StageLoading, "Loading CSV data files...", 1, 1)

	// Ratings and diary together define the watched films; duplicates
	// across the two files stay in so rewatch ratings count twice.
	entries := make([]domain.FilmEntry, 0, len(export.Ratings)+len(export.Diary))
	entries = append(entries, export.Ratings...)
	entries = append(entries, export.Diary...)

	ds := s.enricher.Enrich(ctx, entries, session.Report)

	session.Report(domain.StageAnalyzing, "Generating statistics...", 0, 1)
	statistics := stats.Compute(entries, export.Diary, ds)

	result := domain.AnalysisResult{
		SessionID: sessionID,
		Stats:     statistics,
		Insights:  insights.Build(statistics),
	}
	if err := s.results.PutResult(result); err != nil {
		logger.Error("result write failed", "error", err)
		session.Fail("failed to store analysis result")
		return err
	}

	session.Complete()
	logger.Info("analysis complete",
		"total_films", statistics.TotalFilms,
		"unique_films", statistics.UniqueFilms,
		"metadata_coverage", statistics.MetadataCoverage)
	return nil
}
