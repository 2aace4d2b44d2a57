package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ExtractionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewExtractionCache(client, ttl), mr
}

func TestExtractionCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	name := "John Smith"
	candidate := forms.Candidate{PatientName: &name}

	_, ok, err := cache.Get(ctx, "some notes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "some notes", candidate))

	got, ok, err := cache.Get(ctx, "some notes")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.PatientName)
	assert.Equal(t, "John Smith", *got.PatientName)
}

func TestExtractionCacheKeyedByText(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	name := "John Smith"
	require.NoError(t, cache.Set(ctx, "notes A", forms.Candidate{PatientName: &name}))

	_, ok, err := cache.Get(ctx, "notes B")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractionCacheTTL(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	name := "John Smith"
	require.NoError(t, cache.Set(ctx, "notes", forms.Candidate{PatientName: &name}))

	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractionCacheCorruptEntryIsMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKey("notes"), "not json"))

	_, ok, err := cache.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)
	// The bad entry is evicted.
	assert.False(t, mr.Exists(cacheKey("notes")))
}

func TestExtractionCacheBackendError(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	mr.Close()

	_, ok, err := cache.Get(context.Background(), "notes")
	assert.False(t, ok)
	assert.Error(t, err)
}
