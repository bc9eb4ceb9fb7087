// Package tmdb provides a cached, rate-limited client for The Movie
// Database v3 API and the film resolution/enrichment built on top of it.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// Rate limit defaults: TMDB allows ~50 req/s; stay well under it.
	defaultRPS           = 20.0
	defaultBurst         = 5
	defaultMaxConcurrent = 20

	// HTTP client settings
	defaultTimeout = 30 * time.Second
)

// Config holds client construction options. Zero values fall back to
// sensible defaults; only APIKey is mandatory for production use.
type Config struct {
	APIKey        string
	BaseURL       string
	MaxConcurrent int
	RPS           float64
	Burst         int
}

// Client is a rate-limited TMDB API client with a disk-backed response
// cache. A cache hit never touches the network and never consumes a rate
// token; in-flight network connections are capped by a semaphore shared
// across all concurrent callers.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *ratelimit.KeyedRateLimiter
	sem     chan struct{}
	logger  *slog.Logger
}

// New creates a new TMDB client.
func New(cfg Config, cache *Cache, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}

	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		cache:   cache,
		limiter: ratelimit.New(cfg.RPS, cfg.Burst),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		logger:  logger,
	}
}

// get fetches an endpoint, consulting the cache first. On a successful
// network fetch the parsed body is cached before returning. Failed fetches
// are never cached, so a later retry can succeed.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	// Credential is part of every request and therefore of the cache key.
	params.Set("api_key", c.apiKey)

	if data, ok := c.cache.Get(endpoint, params); ok {
		return data, nil
	}

	// Cap simultaneous open connections; callers wait, never fail.
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()

	data, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	c.cache.Put(endpoint, params, data)
	return data, nil
}

// doRequest executes a rate-limited HTTP GET against the API.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + "/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	u.RawQuery = params.Encode()

	// Wait for rate limit, keyed by host. Cache hits skip this entirely.
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ReelWrapped/1.0")

	c.logger.Debug("tmdb request", "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
