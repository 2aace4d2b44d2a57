package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

const cacheKeyPrefix = "extract:"

// ExtractionCache stores parsed extraction candidates in Redis keyed by a
// digest of the note text. Identical notes never hit the extraction
// service twice within the TTL.
type ExtractionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExtractionCache wraps a Redis client. A zero ttl means entries never
// expire.
func NewExtractionCache(client *redis.Client, ttl time.Duration) *ExtractionCache {
	return &ExtractionCache{client: client, ttl: ttl}
}

// Get looks up a cached candidate. A missing key or an undecodable entry
// is a miss; backend errors are returned so the caller can log them and
// treat the lookup as a miss.
func (c *ExtractionCache) Get(ctx context.Context, rawText string) (forms.Candidate, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(rawText)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return forms.Candidate{}, false, nil
		}
		return forms.Candidate{}, false, fmt.Errorf("store: cache read: %w", err)
	}

	var candidate forms.Candidate
	if err := json.Unmarshal(data, &candidate); err != nil {
		// A stale or corrupted entry; drop it rather than serve garbage.
		c.client.Del(ctx, cacheKey(rawText))
		return forms.Candidate{}, false, nil
	}
	return candidate, true, nil
}

// Set stores a candidate under the digest of the note text.
func (c *ExtractionCache) Set(ctx context.Context, rawText string, candidate forms.Candidate) error {
	data, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("store: cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(rawText), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store: cache write: %w", err)
	}
	return nil
}

func cacheKey(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
