// Package stats computes the aggregate statistics for one analysis run.
// Everything here is pure: raw entries and the enriched dataset in,
// a Statistics value out. Sparse or empty input yields zero values,
// never an error.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Ranking cutoffs, matching what the wrapped summary displays.
const (
	topDirectorsLimit = 20
	topGenresLimit    = 15
	topCountriesLimit = 15
	topLanguagesLimit = 10
	topActorsLimit    = 20
	topRewatchLimit   = 10
	worldTourLimit    = 5
)

// Compute aggregates raw film entries, diary entries, and the enriched
// dataset into the full statistics payload. Film counts are over unique
// keys (the dataset rows); entries is the union of all logged films with
// duplicates kept in, so rating stats weight rewatches; diary carries
// the dated watch log.
func Compute(entries, diary []domain.FilmEntry, ds domain.Dataset) domain.Statistics {
	s := domain.Statistics{
		TotalFilms:        len(ds.Rows),
		UniqueFilms:       len(ds.Rows),
		FilmsWithMetadata: ds.Matched(),
		AnalyzedAt:        time.Now(),
	}
	if s.UniqueFilms > 0 {
		s.MetadataCoverage = round1(float64(s.FilmsWithMetadata) / float64(s.UniqueFilms) * 100)
	}

	computeRatings(&s, entries)
	computeRuntime(&s, ds)
	computeRankings(&s, ds)
	computeDiary(&s, diary)
	computeFun(&s, entries, ds)

	return s
}

// computeRatings fills the rating block from the raw entries. Duplicates
// count: rating a film twice weighs it twice, like the diary says it
// should.
func computeRatings(s *domain.Statistics, entries []domain.FilmEntry) {
	var ratings []float64
	for _, entry := range entries {
		if entry.Rating != nil {
			ratings = append(ratings, *entry.Rating)
		}
	}
	if len(ratings) == 0 {
		return
	}

	s.TotalRatedFilms = len(ratings)

	var sum float64
	dist := make(map[string]int)
	for _, r := range ratings {
		sum += r
		dist[fmt.Sprintf("%.1f", r)]++
	}
	avg := round2(sum / float64(len(ratings)))
	s.AverageRating = &avg
	s.RatingDistribution = dist

	med := round1(median(ratings))
	s.MedianRating = &med

	mode := mostCommonRating(ratings)
	s.MostCommonRating = &mode
}

func computeRuntime(s *domain.Statistics, ds domain.Dataset) {
	var (
		runtimes []float64
		longest  *domain.FilmRuntime
		shortest *domain.FilmRuntime
	)
	for _, row := range ds.Rows {
		if row.Film == nil || row.Film.Runtime <= 0 {
			continue
		}
		rt := row.Film.Runtime
		runtimes = append(runtimes, float64(rt))

		// Strict comparisons keep the first occurrence on ties.
		if longest == nil || rt > longest.Runtime {
			longest = &domain.FilmRuntime{Title: row.Film.Title, Runtime: rt}
		}
		if shortest == nil || rt < shortest.Runtime {
			shortest = &domain.FilmRuntime{Title: row.Film.Title, Runtime: rt}
		}
	}
	if len(runtimes) == 0 {
		return
	}

	var total int
	for _, rt := range runtimes {
		total += int(rt)
	}
	s.TotalRuntime = total
	s.HoursWatched = round1(float64(total) / 60)
	s.DaysWatched = round1(float64(total) / (60 * 24))
	s.AverageRuntime = round1(float64(total) / float64(len(runtimes)))
	s.MedianRuntime = round1(median(runtimes))
	s.LongestFilm = longest
	s.ShortestFilm = shortest
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mostCommonRating returns the modal rating; ties break toward the
// lowest value.
func mostCommonRating(ratings []float64) float64 {
	counts := make(map[float64]int)
	for _, r := range ratings {
		counts[r]++
	}

	var (
		best      float64
		bestCount int
	)
	for r, count := range counts {
		if count > bestCount || (count == bestCount && r < best) {
			best = r
			bestCount = count
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
