package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/score"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock                   { return &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)} }
func record(overall int) score.Record {
	return score.Record{CandidateID: uuid.New(), JobID: uuid.New(), Result: score.Result{OverallScore: overall}}
}

func TestScoreCachePutThenGetFromMemory(t *testing.T) {
	store := newMemScores()
	c := NewScoreCache(store, time.Minute, 0, nil)
	rec := record(70)

	require.NoError(t, c.Put(context.Background(), rec))
	got, found, err := c.Get(context.Background(), rec.Key())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec, got)
	assert.Equal(t, int64(0), store.gets.Load())
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestScoreCacheFallsBackToStoreAfterTTL(t *testing.T) {
	store := newMemScores()
	clk := newClock()
	c := NewScoreCache(store, time.Minute, 0, nil)
	c.now = clk.now
	rec := record(55)
	require.NoError(t, c.Put(context.Background(), rec))

	clk.advance(time.Minute)
	got, found, err := c.Get(context.Background(), rec.Key())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 55, got.Result.OverallScore)

	st := c.Stats()
	assert.Equal(t, int64(0), st.Hits)
	assert.Equal(t, int64(1), st.StoreHits)
	assert.Equal(t, int64(1), st.Evictions)
	assert.Equal(t, 1, st.Entries)

	// repopulated from the store with a fresh TTL
	_, _, _ = c.Get(context.Background(), rec.Key())
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestScoreCacheMiss(t *testing.T) {
	c := NewScoreCache(newMemScores(), time.Minute, 0, nil)

	_, found, err := c.Get(context.Background(), score.Key{CandidateID: uuid.New(), JobID: uuid.New()})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestScoreCacheStoreErrors(t *testing.T) {
	store := newMemScores()
	store.getErr = errors.New("connection refused")
	store.upsertErr = errors.New("read-only")
	c := NewScoreCache(store, time.Minute, 0, nil)
	rec := record(10)

	_, _, err := c.Get(context.Background(), rec.Key())
	assert.True(t, errors.Is(err, ErrStore))

	err = c.Put(context.Background(), rec)
	assert.True(t, errors.Is(err, ErrStore))
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestScoreCacheMaxEntriesEvictsOldest(t *testing.T) {
	clk := newClock()
	c := NewScoreCache(newMemScores(), time.Minute, 2, nil)
	c.now = clk.now
	ctx := context.Background()

	first, second, third := record(1), record(2), record(3)
	require.NoError(t, c.Put(ctx, first))
	clk.advance(time.Second)
	require.NoError(t, c.Put(ctx, second))
	clk.advance(time.Second)
	require.NoError(t, c.Put(ctx, third))

	assert.Equal(t, 2, c.Stats().Entries)
	_, ok := c.lookup(first.Key())
	assert.False(t, ok)
	_, ok = c.lookup(third.Key())
	assert.True(t, ok)

	// overwriting an existing key does not evict
	require.NoError(t, c.Put(ctx, second))
	_, ok = c.lookup(third.Key())
	assert.True(t, ok)
}

func TestScoreCacheSweep(t *testing.T) {
	clk := newClock()
	c := NewScoreCache(newMemScores(), time.Minute, 0, nil)
	c.now = clk.now
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, record(1)))
	require.NoError(t, c.Put(ctx, record(2)))
	clk.advance(30 * time.Second)
	require.NoError(t, c.Put(ctx, record(3)))
	clk.advance(31 * time.Second)

	assert.Equal(t, 2, c.sweep())
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestScoreCacheInvalidate(t *testing.T) {
	store := newMemScores()
	c := NewScoreCache(store, time.Minute, 0, nil)
	rec := record(40)
	require.NoError(t, c.Put(context.Background(), rec))

	c.Invalidate(rec.Key())
	_, found, err := c.Get(context.Background(), rec.Key())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), store.gets.Load())
}

func TestScoreCacheStartStopsWithContext(t *testing.T) {
	c := NewScoreCache(newMemScores(), time.Millisecond, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()
}
