package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/lehigh-university-libraries/citematch/internal/storage"
)

// Cache stores fetch results by key
type Cache interface {
	Get(key string) (storage.Entry, bool, error)
	Set(key string, entry storage.Entry) error
}

// Cached wraps a source so repeated queries are answered from a cache.
// Cache failures are logged and fall through to the wrapped source.
type Cached struct {
	src   Source
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewCached creates a caching source. A non-positive ttl keeps entries forever.
func NewCached(src Source, cache Cache, ttl time.Duration) *Cached {
	return &Cached{src: src, cache: cache, ttl: ttl, now: time.Now}
}

func (c *Cached) Name() string { return c.src.Name() }

func (c *Cached) Fetch(ctx context.Context, query string) ([]models.CandidateRecord, error) {
	key := cacheKey(c.src.Name(), query)

	entry, ok, err := c.cache.Get(key)
	switch {
	case err != nil:
		slog.Warn("Unable to read fetch cache", "source", c.src.Name(), "err", err)
	case ok && !entry.Expired(c.ttl, c.now()):
		slog.Debug("Fetch cache hit", "source", c.src.Name(), "query", query)
		return entry.Records, nil
	}

	records, err := c.src.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(key, storage.Entry{Records: records, FetchedAt: c.now()}); err != nil {
		slog.Warn("Unable to write fetch cache", "source", c.src.Name(), "err", err)
	}
	return records, nil
}

func cacheKey(source, query string) string {
	return source + "|" + strings.Join(strings.Fields(query), " ")
}
