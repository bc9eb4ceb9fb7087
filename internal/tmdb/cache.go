package tmdb

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Cache is a disk-backed store for raw TMDB responses, keyed by a
// content-addressed hash of the request. Film metadata is near-static, so
// entries never expire; they are immutable once written.
//
// Writes go to a temp file first and are moved into place with a rename,
// so concurrent readers never observe a partially written entry. A write
// race on the same key is harmless: both writers carry equivalent content.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, logger: logger}, nil
}

// Get returns the cached response for (endpoint, params), or ok=false on a
// miss. Unreadable entries count as misses, never errors; the caller
// re-fetches and overwrites.
func (c *Cache) Get(endpoint string, params url.Values) ([]byte, bool) {
	data, err := os.ReadFile(c.path(endpoint, params))
	if err != nil {
		return nil, false
	}
	if len(data) == 0 {
		// A zero-byte file is a leftover from an interrupted write.
		return nil, false
	}
	return data, true
}

// Put stores a response under (endpoint, params) via write-then-rename.
// Failures are logged and swallowed: a missing cache entry only costs a
// future network call.
func (c *Cache) Put(endpoint string, params url.Values, data []byte) {
	final := c.path(endpoint, params)
	tmp := final + ".tmp." + uuid.NewString()

	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		c.logger.Warn("cache write failed", "endpoint", endpoint, "error", err)
		return
	}
	if err := os.Rename(tmp, final); err != nil {
		c.logger.Warn("cache rename failed", "endpoint", endpoint, "error", err)
		_ = os.Remove(tmp)
	}
}

// path derives the entry filename from the endpoint and the parameter set
// serialized with sorted keys, so identical logical requests collapse to
// one entry regardless of parameter insertion order.
func (c *Cache) path(endpoint string, params url.Values) string {
	sum := sha256.Sum256([]byte(endpoint + "?" + canonicalQuery(params)))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// canonicalQuery serializes params with keys in sorted order.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	return b.String()
}
