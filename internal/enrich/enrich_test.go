package enrich

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

type fakeResolver struct {
	ids   map[domain.FilmKey]int
	calls atomic.Int64
}

func (f *fakeResolver) ResolveFilm(_ context.Context, title string, year int) (int, bool) {
	f.calls.Add(1)
	id, ok := f.ids[domain.FilmKey{Title: title, Year: year}]
	return id, ok
}

type fakeFetcher struct {
	films map[int]*domain.Film
	calls atomic.Int64

	mu          sync.Mutex
	inFlight    int
	maxParallel int
}

func (f *fakeFetcher) FetchFilm(_ context.Context, id int) *domain.Film {
	f.calls.Add(1)
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxParallel {
		f.maxParallel = f.inFlight
	}
	f.mu.Unlock()

	film := f.films[id]

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return film
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func entry(title string, year int) domain.FilmEntry {
	return domain.FilmEntry{Title: title, Year: year}
}

func TestEnrich_OneRowPerUniqueKey(t *testing.T) {
	resolver := &fakeResolver{ids: map[domain.FilmKey]int{
		{Title: "Parasite", Year: 2019}: 496243,
		{Title: "Heat", Year: 1995}:     949,
	}}
	fetcher := &fakeFetcher{films: map[int]*domain.Film{
		496243: {TMDBID: 496243, Title: "Parasite"},
		949:    {TMDBID: 949, Title: "Heat"},
	}}

	// Parasite appears twice (rating + diary row); Home Movie is unmatched.
	entries := []domain.FilmEntry{
		entry("Parasite", 2019),
		entry("Heat", 1995),
		entry("Parasite", 2019),
		entry("Home Movie", 2003),
	}

	ds := New(resolver, fetcher, 4, testLogger()).Enrich(context.Background(), entries, nil)

	if len(ds.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(ds.Rows))
	}
	if ds.Matched() != 2 {
		t.Errorf("got %d matched, want 2", ds.Matched())
	}

	// Rows keep first-seen input order.
	if ds.Rows[0].Key.Title != "Parasite" || ds.Rows[1].Key.Title != "Heat" || ds.Rows[2].Key.Title != "Home Movie" {
		t.Errorf("unexpected row order: %+v", ds.Rows)
	}

	if ds.Rows[0].Film == nil || ds.Rows[0].Film.TMDBID != 496243 {
		t.Errorf("Parasite row not joined: %+v", ds.Rows[0])
	}
	if ds.Rows[2].TMDBID != 0 || ds.Rows[2].Film != nil {
		t.Errorf("unmatched row should stay empty: %+v", ds.Rows[2])
	}
}

func TestEnrich_FetchesEachIDOnce(t *testing.T) {
	// Two distinct keys resolve to the same TMDB ID (retitled re-release).
	resolver := &fakeResolver{ids: map[domain.FilmKey]int{
		{Title: "Blade Runner", Year: 1982}:                78,
		{Title: "Blade Runner: The Final Cut", Year: 2007}: 78,
	}}
	fetcher := &fakeFetcher{films: map[int]*domain.Film{
		78: {TMDBID: 78, Title: "Blade Runner"},
	}}

	entries := []domain.FilmEntry{
		entry("Blade Runner", 1982),
		entry("Blade Runner: The Final Cut", 2007),
	}

	ds := New(resolver, fetcher, 4, testLogger()).Enrich(context.Background(), entries, nil)

	if fetcher.calls.Load() != 1 {
		t.Errorf("got %d fetches, want 1", fetcher.calls.Load())
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(ds.Rows))
	}
	// Both rows share the single fetched record.
	if ds.Rows[0].Film != ds.Rows[1].Film {
		t.Error("expected both rows to reference the same record")
	}
}

func TestEnrich_FetchFailureKeepsRow(t *testing.T) {
	resolver := &fakeResolver{ids: map[domain.FilmKey]int{
		{Title: "Heat", Year: 1995}: 949,
	}}
	fetcher := &fakeFetcher{films: map[int]*domain.Film{}} // fetch yields nothing

	ds := New(resolver, fetcher, 4, testLogger()).Enrich(context.Background(), []domain.FilmEntry{entry("Heat", 1995)}, nil)

	if len(ds.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ds.Rows))
	}
	if ds.Rows[0].TMDBID != 949 {
		t.Errorf("resolved ID should survive a failed fetch, got %d", ds.Rows[0].TMDBID)
	}
	if ds.Rows[0].Film != nil {
		t.Errorf("expected nil record, got %+v", ds.Rows[0].Film)
	}
}

func TestEnrich_AllUnmatched(t *testing.T) {
	resolver := &fakeResolver{ids: map[domain.FilmKey]int{}}
	fetcher := &fakeFetcher{}

	entries := []domain.FilmEntry{entry("A", 2000), entry("B", 2001)}
	ds := New(resolver, fetcher, 4, testLogger()).Enrich(context.Background(), entries, nil)

	if len(ds.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(ds.Rows))
	}
	if ds.Matched() != 0 {
		t.Errorf("got %d matched, want 0", ds.Matched())
	}
	if fetcher.calls.Load() != 0 {
		t.Errorf("got %d fetches, want 0", fetcher.calls.Load())
	}
}

func TestEnrich_EmptyInput(t *testing.T) {
	ds := New(&fakeResolver{}, &fakeFetcher{}, 4, testLogger()).Enrich(context.Background(), nil, nil)
	if len(ds.Rows) != 0 {
		t.Errorf("got %d rows, want 0", len(ds.Rows))
	}
}

func TestEnrich_BoundsConcurrency(t *testing.T) {
	ids := make(map[domain.FilmKey]int)
	films := make(map[int]*domain.Film)
	var entries []domain.FilmEntry
	for i := 1; i <= 50; i++ {
		key := domain.FilmKey{Title: "Film", Year: 1900 + i}
		ids[key] = i
		films[i] = &domain.Film{TMDBID: i}
		entries = append(entries, entry(key.Title, key.Year))
	}

	fetcher := &fakeFetcher{films: films}
	ds := New(&fakeResolver{ids: ids}, fetcher, 3, testLogger()).Enrich(context.Background(), entries, nil)

	if ds.Matched() != 50 {
		t.Fatalf("got %d matched, want 50", ds.Matched())
	}
	if fetcher.maxParallel > 3 {
		t.Errorf("observed %d parallel fetches, bound is 3", fetcher.maxParallel)
	}
}

func TestEnrich_ReportsProgress(t *testing.T) {
	ids := make(map[domain.FilmKey]int)
	films := make(map[int]*domain.Film)
	var entries []domain.FilmEntry
	for i := 1; i <= 25; i++ {
		key := domain.FilmKey{Title: "Film", Year: 1900 + i}
		ids[key] = i
		films[i] = &domain.Film{TMDBID: i}
		entries = append(entries, entry(key.Title, key.Year))
	}

	var mu sync.Mutex
	stages := make(map[string]int)
	progress := func(stage, _ string, _, _ int) {
		mu.Lock()
		stages[stage]++
		mu.Unlock()
	}

	New(&fakeResolver{ids: ids}, &fakeFetcher{films: films}, 4, testLogger()).Enrich(context.Background(), entries, progress)

	// Per phase: one start, one final, plus one per 10 completions.
	if got := stages[domain.StageMatching]; got != 4 {
		t.Errorf("got %d matching reports, want 4", got)
	}
	if got := stages[domain.StageMetadata]; got != 4 {
		t.Errorf("got %d metadata reports, want 4", got)
	}
}
