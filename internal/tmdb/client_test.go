package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := testLogger()
	cache, err := NewCache(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	client := New(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		RPS:     1000,
		Burst:   100,
	}, cache, logger)

	return client, server
}

func TestClient_Get_InjectsAPIKey(t *testing.T) {
	var gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(`{"ok":true}`))
	})

	if _, err := client.get(context.Background(), "movie/1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("got api_key %q, want %q", gotKey, "test-key")
	}
}

func TestClient_Get_CacheHitSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"id":603}`))
	})

	ctx := context.Background()
	first, err := client.get(ctx, "movie/603", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.get(ctx, "movie/603", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("got %d network calls, want 1", calls.Load())
	}
	if string(first) != string(second) {
		t.Errorf("cached body %q differs from original %q", second, first)
	}
}

func TestClient_Get_FailuresNotCached(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":603}`))
	})

	ctx := context.Background()
	if _, err := client.get(ctx, "movie/603", nil); !errors.Is(err, ErrServer) {
		t.Fatalf("got error %v, want ErrServer", err)
	}

	// The failure must not have been cached; the retry reaches the server.
	body, err := client.get(ctx, "movie/603", nil)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if string(body) != `{"id":603}` {
		t.Errorf("got body %q", body)
	}
	if calls.Load() != 2 {
		t.Errorf("got %d network calls, want 2", calls.Load())
	}
}

func TestClient_Get_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{name: "not found", statusCode: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "bad request", statusCode: http.StatusBadRequest, wantErr: ErrBadRequest},
		{name: "server error", statusCode: http.StatusBadGateway, wantErr: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.get(context.Background(), "movie/1", nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Get_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.get(ctx, "movie/1", url.Values{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want context.Canceled", err)
	}
}
