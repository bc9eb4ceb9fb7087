package letterboxd

import (
	"archive/zip"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/reelwrapped/reelwrapped-server/internal/errors"
)

func writeTestZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish zip: %v", err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoad_FullExport(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"ratings.csv":   ratingsCSV,
		"diary.csv":     diaryCSV,
		"watchlist.csv": "Date,Name,Year,Letterboxd URI\n2024-01-01,Stalker,1979,https://boxd.it/2b0s\n",
	})

	export, err := Load(zipPath, t.TempDir(), quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(export.Ratings) != 3 {
		t.Errorf("got %d ratings, want 3", len(export.Ratings))
	}
	if len(export.Diary) != 2 {
		t.Errorf("got %d diary entries, want 2", len(export.Diary))
	}
	if len(export.Watchlist) != 1 {
		t.Errorf("got %d watchlist entries, want 1", len(export.Watchlist))
	}
	if len(export.Reviews) != 0 {
		t.Errorf("got %d reviews, want 0", len(export.Reviews))
	}
}

func TestLoad_CaseInsensitiveAndNested(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"letterboxd-export/RATINGS.CSV": ratingsCSV,
	})

	export, err := Load(zipPath, t.TempDir(), quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(export.Ratings) != 3 {
		t.Errorf("got %d ratings, want 3", len(export.Ratings))
	}
}

func TestLoad_DiaryOnlyIsUsable(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{"diary.csv": diaryCSV})

	export, err := Load(zipPath, t.TempDir(), quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(export.Diary) != 2 {
		t.Errorf("got %d diary entries, want 2", len(export.Diary))
	}
}

func TestLoad_NoUsableData(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"watchlist.csv": "Date,Name,Year,Letterboxd URI\n2024-01-01,Stalker,1979,u\n",
		"profile.csv":   "Username\nfilmfan\n",
	})

	_, err := Load(zipPath, t.TempDir(), quietLogger())
	if !apperrors.Is(err, apperrors.ErrNoData) {
		t.Errorf("got error %v, want NO_DATA", err)
	}
}

func TestLoad_EmptyExportFiles(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"ratings.csv": "Date,Name,Year,Letterboxd URI,Rating\n",
		"diary.csv":   "",
	})

	_, err := Load(zipPath, t.TempDir(), quietLogger())
	if !apperrors.Is(err, apperrors.ErrNoData) {
		t.Errorf("got error %v, want NO_DATA", err)
	}
}

func TestLoad_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.zip")
	if err := os.WriteFile(path, []byte("not a zip"), 0o640); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path, t.TempDir(), quietLogger())
	if !apperrors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("got error %v, want UNSUPPORTED_MEDIA", err)
	}
}
