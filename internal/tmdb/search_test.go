package tmdb

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
)

func TestResolveFilm_FirstResultWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":496243,"title":"Parasite"},{"id":9408,"title":"Parasite"}]}`))
	})

	id, ok := client.ResolveFilm(context.Background(), "Parasite", 2019)
	if !ok {
		t.Fatal("expected a match")
	}
	if id != 496243 {
		t.Errorf("got id %d, want 496243", id)
	}
}

func TestResolveFilm_RetriesWithoutYear(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("year") != "" {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[{"id":278,"title":"The Shawshank Redemption"}]}`))
	})

	id, ok := client.ResolveFilm(context.Background(), "The Shawshank Redemption", 1995)
	if !ok {
		t.Fatal("expected a match via year-relaxed retry")
	}
	if id != 278 {
		t.Errorf("got id %d, want 278", id)
	}
	if calls.Load() != 2 {
		t.Errorf("got %d search calls, want 2", calls.Load())
	}
}

func TestResolveFilm_NoRetryWithoutYear(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	})

	if _, ok := client.ResolveFilm(context.Background(), "Nonexistent Film", 0); ok {
		t.Error("expected no match")
	}
	// A query that never had a year constraint has nothing to relax.
	if calls.Load() != 1 {
		t.Errorf("got %d search calls, want 1", calls.Load())
	}
}

func TestResolveFilm_Unmatched(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	if id, ok := client.ResolveFilm(context.Background(), "Home Movie 2003", 2003); ok {
		t.Errorf("expected no match, got id %d", id)
	}
}

func TestResolveFilm_ServerFailureIsUnmatched(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, ok := client.ResolveFilm(context.Background(), "Heat", 1995); ok {
		t.Error("expected failure to resolve as unmatched, not panic or match")
	}
}

func TestSearchMovie_SendsExpectedParams(t *testing.T) {
	var gotQuery, gotYear, gotAdult string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = q.Get("query")
		gotYear = q.Get("year")
		gotAdult = q.Get("include_adult")
		w.Write([]byte(`{"results":[]}`))
	})

	if _, err := client.searchMovie(context.Background(), "Heat", 1995); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "Heat" {
		t.Errorf("got query %q, want %q", gotQuery, "Heat")
	}
	if gotYear != "1995" {
		t.Errorf("got year %q, want %q", gotYear, "1995")
	}
	if gotAdult != "false" {
		t.Errorf("got include_adult %q, want %q", gotAdult, "false")
	}
}
