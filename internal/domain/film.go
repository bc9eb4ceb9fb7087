// Package domain defines the core types shared across the Reel Wrapped server.
package domain

import "time"

// FilmEntry is one row from a Letterboxd export file (ratings.csv or
// diary.csv). Immutable once parsed.
type FilmEntry struct {
	Title       string
	Year        int // 0 when the export row carried no year
	Rating      *float64
	WatchedDate *time.Time
	Rewatch     bool
}

// Key returns the unique film key for this entry.
func (e FilmEntry) Key() FilmKey {
	return FilmKey{Title: e.Title, Year: e.Year}
}

// FilmKey identifies one distinct film across possibly-duplicated export
// rows. Title comparison is exact and case-sensitive; the year is part of
// the key so re-releases logged under different years stay distinct.
type FilmKey struct {
	Title string
	Year  int
}

// Film is the normalized metadata record for one TMDB movie. Created once
// per distinct TMDB ID during the fetch stage and never mutated afterwards;
// many FilmKeys may reference the same Film.
type Film struct {
	TMDBID      int      `json:"tmdb_id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Runtime     int      `json:"runtime"` // minutes, 0 = unknown
	Language    string   `json:"language"`
	Popularity  float64  `json:"popularity"`
	VoteAverage float64  `json:"vote_average"`
	Decade      *string  `json:"decade"` // "1990s"; nil when release date is unparseable
	Director    *string  `json:"director"`
	Directors   []string `json:"directors"`
	Writers     []string `json:"writers"`
	Cast        []string `json:"cast"` // top-10 billed, lead first
	Genres      []string `json:"genres"`
	Countries   []string `json:"countries"`
	Keywords    []string `json:"keywords"`
	PosterPath  string   `json:"poster_path"`
}

// DatasetRow is one row of the enriched dataset: a unique film key joined
// against its resolved TMDB ID and metadata. Unmatched films keep nil
// metadata so row counts stay consistent with the raw input.
type DatasetRow struct {
	Key    FilmKey
	TMDBID int   // 0 = unmatched
	Film   *Film // nil = unmatched or fetch failed
}

// Dataset is the left-join of every unique film key against the fetched
// metadata records. Every key from the raw input appears exactly once.
type Dataset struct {
	Rows []DatasetRow
}

// Matched returns how many rows carry a metadata record.
func (d Dataset) Matched() int {
	n := 0
	for _, row := range d.Rows {
		if row.Film != nil {
			n++
		}
	}
	return n
}
