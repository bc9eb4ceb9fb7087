// Package enrich orchestrates the batch enrichment pipeline: resolve
// every distinct film to a TMDB ID, fetch metadata once per ID, and join
// the results back against the input.
package enrich

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Resolver maps a (title, year) pair to a TMDB movie ID.
type Resolver interface {
	ResolveFilm(ctx context.Context, title string, year int) (int, bool)
}

// Fetcher loads the merged metadata record for one TMDB movie ID.
type Fetcher interface {
	FetchFilm(ctx context.Context, id int) *domain.Film
}

// ProgressFunc receives batch progress. May be nil.
type ProgressFunc func(stage, message string, completed, total int)

// Batch completions between progress reports.
const reportEvery = 10

const defaultWorkers = 20

// Enricher runs the two-phase resolve/fetch pipeline with a bounded
// worker pool per phase. A phase fully completes before the next starts,
// so every distinct ID is known before any metadata fetch begins and no
// ID is fetched twice.
type Enricher struct {
	resolver Resolver
	fetcher  Fetcher
	workers  int
	logger   *slog.Logger
}

// New creates an Enricher. workers <= 0 falls back to the default bound.
func New(resolver Resolver, fetcher Fetcher, workers int, logger *slog.Logger) *Enricher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Enricher{
		resolver: resolver,
		fetcher:  fetcher,
		workers:  workers,
		logger:   logger,
	}
}

// Enrich resolves and fetches metadata for every distinct film among the
// entries and returns the joined dataset. Every distinct key appears in
// exactly one row; unmatched or failed films keep a nil metadata record.
// Individual film failures never abort the batch.
func (e *Enricher) Enrich(ctx context.Context, entries []domain.FilmEntry, progress ProgressFunc) domain.Dataset {
	if progress == nil {
		progress = func(string, string, int, int) {}
	}

	keys := uniqueKeys(entries)
	e.logger.Info("enrichment started", "entries", len(entries), "unique_films", len(keys))

	ids := e.resolveAll(ctx, keys, progress)
	films := e.fetchAll(ctx, distinct(ids), progress)

	// Left-join: one row per key, whether or not it matched.
	rows := make([]domain.DatasetRow, len(keys))
	for i, key := range keys {
		rows[i] = domain.DatasetRow{
			Key:    key,
			TMDBID: ids[i],
			Film:   films[ids[i]],
		}
	}

	ds := domain.Dataset{Rows: rows}
	e.logger.Info("enrichment finished", "unique_films", len(keys), "matched", ds.Matched())
	return ds
}

// resolveAll maps each key to a TMDB ID, 0 for unmatched. The result is
// index-aligned with keys.
func (e *Enricher) resolveAll(ctx context.Context, keys []domain.FilmKey, progress ProgressFunc) []int {
	total := len(keys)
	progress(domain.StageMatching, "Matching films against TMDB...", 0, total)

	ids := make([]int, total)

	var (
		wg   sync.WaitGroup
		done atomic.Int64
		sem  = make(chan struct{}, e.workers)
	)
	for i, key := range keys {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if id, ok := e.resolver.ResolveFilm(ctx, key.Title, key.Year); ok {
				ids[i] = id
			}
			if n := int(done.Add(1)); n%reportEvery == 0 {
				progress(domain.StageMatching, "Matching films against TMDB...", n, total)
			}
		}()
	}
	wg.Wait()

	progress(domain.StageMatching, "Film matching complete", total, total)
	return ids
}

// fetchAll fetches metadata once per distinct ID and returns the records
// keyed by ID. IDs whose fetch fails are absent from the result.
func (e *Enricher) fetchAll(ctx context.Context, ids []int, progress ProgressFunc) map[int]*domain.Film {
	total := len(ids)
	progress(domain.StageMetadata, "Fetching film metadata...", 0, total)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done atomic.Int64
		sem  = make(chan struct{}, e.workers)
	)
	films := make(map[int]*domain.Film, total)

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if film := e.fetcher.FetchFilm(ctx, id); film != nil {
				mu.Lock()
				films[id] = film
				mu.Unlock()
			}
			if n := int(done.Add(1)); n%reportEvery == 0 {
				progress(domain.StageMetadata, "Fetching film metadata...", n, total)
			}
		}()
	}
	wg.Wait()

	progress(domain.StageMetadata, "Metadata fetch complete", total, total)
	return films
}

// uniqueKeys extracts the distinct film keys in first-seen order.
func uniqueKeys(entries []domain.FilmEntry) []domain.FilmKey {
	seen := make(map[domain.FilmKey]bool, len(entries))
	keys := make([]domain.FilmKey, 0, len(entries))
	for _, entry := range entries {
		key := entry.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// distinct filters the resolved IDs down to unique non-zero values in
// first-seen order.
func distinct(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
