package postgres

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/V4T54L/leatherstore/internal/adapter/metrics"
	"github.com/V4T54L/leatherstore/internal/domain"
)

type contentEntry struct {
	blocks    map[string]domain.ContentBlock
	expiresAt time.Time
}

// CachedContentRepository wraps a domain.ContentRepository with an in-memory,
// time-based cache for GetMany, which backs the social links on every page and
// the home page selling points.
// Writes through the wrapper invalidate the cache.
type CachedContentRepository struct {
	domain.ContentRepository
	logger   *slog.Logger
	cache    map[string]contentEntry
	mu       sync.RWMutex
	cacheTTL time.Duration
	metrics  *metrics.StorefrontMetrics
	now      func() time.Time
}

// NewCachedContentRepository creates a cache in front of next.
func NewCachedContentRepository(next domain.ContentRepository, logger *slog.Logger, cacheTTL time.Duration, m *metrics.StorefrontMetrics) *CachedContentRepository {
	return &CachedContentRepository{
		ContentRepository: next,
		logger:            logger,
		cache:             make(map[string]contentEntry),
		cacheTTL:          cacheTTL,
		metrics:           m,
		now:               time.Now,
	}
}

func cacheKey(keys []string) string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x00")
}

// GetMany serves from the cache and falls back to the wrapped repository if the
// entry is missing or expired.
func (r *CachedContentRepository) GetMany(ctx context.Context, keys []string) (map[string]domain.ContentBlock, error) {
	key := cacheKey(keys)

	r.mu.RLock()
	entry, found := r.cache[key]
	r.mu.RUnlock()

	if found && r.now().Before(entry.expiresAt) {
		if r.metrics != nil {
			r.metrics.ContentCacheHits.Inc()
		}
		return entry.blocks, nil
	}

	if r.metrics != nil {
		r.metrics.ContentCacheMisses.Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have refreshed the entry while we waited for the lock.
	entry, found = r.cache[key]
	if found && r.now().Before(entry.expiresAt) {
		return entry.blocks, nil
	}

	blocks, err := r.ContentRepository.GetMany(ctx, keys)
	if err != nil {
		r.logger.Error("failed to load content blocks", "error", err, "keys", keys)
		// Don't cache errors, let the next request retry from the DB
		return nil, err
	}

	r.cache[key] = contentEntry{blocks: blocks, expiresAt: r.now().Add(r.cacheTTL)}
	return blocks, nil
}

func (r *CachedContentRepository) Upsert(ctx context.Context, b *domain.ContentBlock) error {
	if err := r.ContentRepository.Upsert(ctx, b); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

func (r *CachedContentRepository) Delete(ctx context.Context, key string) error {
	if err := r.ContentRepository.Delete(ctx, key); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Invalidate drops every cached entry.
func (r *CachedContentRepository) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]contentEntry)
	r.mu.Unlock()
}
