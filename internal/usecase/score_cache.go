package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"talent-match/internal/domain/score"
	"talent-match/internal/repository"

	"go.uber.org/zap"
)

const DefaultScoreCacheTTL = 30 * time.Minute

// ScoreCache keeps recently used score records in memory in front of the
// persisted store. Entries expire after a fixed TTL; expiry is checked on read
// and swept periodically once Start is running.
type ScoreCache struct {
	store      repository.ScoreRepository
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.RWMutex
	entries map[score.Key]cacheEntry

	hits      atomic.Int64
	storeHits atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	rec       score.Record
	expiresAt time.Time
}

type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	StoreHits int64 `json:"store_hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewScoreCache builds a cache with the given TTL. maxEntries <= 0 means unbounded.
func NewScoreCache(store repository.ScoreRepository, ttl time.Duration, maxEntries int, logger *zap.Logger) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultScoreCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreCache{
		store:      store,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger.Named("score_cache"),
		now:        time.Now,
		entries:    make(map[score.Key]cacheEntry),
	}
}

// Get returns the cached record for key, falling back to the store. A store
// hit is copied into memory.
func (c *ScoreCache) Get(ctx context.Context, key score.Key) (score.Record, bool, error) {
	if rec, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.logger.Debug("memory hit", zap.Stringer("key", key))
		return rec, true, nil
	}

	rec, found, err := c.store.Get(ctx, key)
	if err != nil {
		return score.Record{}, false, fmt.Errorf("%w: get %s: %v", ErrStore, key, err)
	}
	if !found {
		c.misses.Add(1)
		return score.Record{}, false, nil
	}

	c.storeHits.Add(1)
	c.remember(rec)
	return rec, true, nil
}

// Put writes rec to the store and then to memory.
func (c *ScoreCache) Put(ctx context.Context, rec score.Record) error {
	if err := c.store.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrStore, rec.Key(), err)
	}
	c.remember(rec)
	return nil
}

func (c *ScoreCache) Invalidate(key score.Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *ScoreCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{
		Entries:   n,
		Hits:      c.hits.Load(),
		StoreHits: c.storeHits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Start sweeps expired entries until ctx is cancelled.
func (c *ScoreCache) Start(ctx context.Context) {
	interval := c.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := c.sweep(); n > 0 {
					c.logger.Debug("expired entries swept", zap.Int("count", n))
				}
			}
		}
	}()
}

func (c *ScoreCache) lookup(key score.Key) (score.Record, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return score.Record{}, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		return score.Record{}, false
	}
	return e.rec, true
}

func (c *ScoreCache) remember(rec score.Record) {
	key := rec.Key()
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = cacheEntry{rec: rec, expiresAt: now.Add(c.ttl)}
}

// evictLocked drops expired entries, then the entry closest to expiry if the
// map is still full.
func (c *ScoreCache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			c.evictions.Add(1)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var (
		oldest   score.Key
		oldestAt time.Time
		first    = true
	)
	for k, e := range c.entries {
		if first || e.expiresAt.Before(oldestAt) {
			oldest, oldestAt, first = k, e.expiresAt, false
		}
	}
	delete(c.entries, oldest)
	c.evictions.Add(1)
}

func (c *ScoreCache) sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	c.evictions.Add(int64(n))
	return n
}
