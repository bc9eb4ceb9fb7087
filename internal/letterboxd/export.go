// Package letterboxd handles Letterboxd data-export archives: ZIP
// extraction, export file discovery, and CSV parsing into domain entries.
package letterboxd

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
	apperrors "github.com/reelwrapped/reelwrapped-server/internal/errors"
)

// Export file names discovered inside the archive. Matching is
// case-insensitive and by substring, so "orig_ratings.csv" still counts.
var exportFiles = []string{"ratings.csv", "diary.csv", "watchlist.csv", "reviews.csv"}

// Export holds the parsed contents of one Letterboxd data export.
// Missing files yield empty slices, not errors; only a fully unusable
// export (neither ratings nor diary present) is rejected.
type Export struct {
	Ratings   []domain.FilmEntry
	Diary     []domain.FilmEntry
	Watchlist []domain.FilmEntry
	Reviews   []domain.FilmEntry
}

// Load extracts zipPath into stagingDir and parses every export file it
// finds. Returns a NO_DATA error when neither ratings.csv nor diary.csv
// yields any entries.
func Load(zipPath, stagingDir string, logger *slog.Logger) (*Export, error) {
	files, err := Extract(zipPath, stagingDir)
	if err != nil {
		return nil, err
	}

	export := &Export{}
	for name, path := range files {
		entries, err := parseFile(path)
		if err != nil {
			logger.Warn("skipping unparseable export file", "file", name, "error", err)
			continue
		}
		switch {
		case strings.Contains(name, "ratings.csv"):
			export.Ratings = entries
		case strings.Contains(name, "diary.csv"):
			export.Diary = entries
		case strings.Contains(name, "watchlist.csv"):
			export.Watchlist = entries
		case strings.Contains(name, "reviews.csv"):
			export.Reviews = entries
		}
	}

	if len(export.Ratings) == 0 && len(export.Diary) == 0 {
		return nil, apperrors.NoData("no usable data found, need at least ratings.csv or diary.csv")
	}

	logger.Info("export loaded",
		"ratings", len(export.Ratings),
		"diary", len(export.Diary),
		"watchlist", len(export.Watchlist),
		"reviews", len(export.Reviews))

	return export, nil
}

// Extract unpacks the archive at zipPath into destDir and returns the
// discovered export files keyed by their lowercased base name.
func Extract(zipPath, destDir string) (map[string]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, apperrors.Unsupported("file is not a valid ZIP archive").WithCause(err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	found := make(map[string]string)
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		// Exports are flat; nested paths are flattened to their base name
		// so a wrapping directory in the archive does not hide the files.
		base := strings.ToLower(filepath.Base(file.Name))
		if !isExportFile(base) {
			continue
		}

		dest := filepath.Join(destDir, base)
		if err := extractFile(file, dest); err != nil {
			return nil, fmt.Errorf("extract %s: %w", file.Name, err)
		}
		found[base] = dest
	}

	return found, nil
}

func isExportFile(base string) bool {
	for _, name := range exportFiles {
		if strings.Contains(base, name) {
			return true
		}
	}
	return false
}

func extractFile(file *zip.File, dest string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
