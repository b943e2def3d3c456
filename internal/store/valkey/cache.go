package valkey

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/maraichr/joingraph/pkg/models"
)

// ResultCache stores finished unit results keyed by a hash of the raw SQL.
// Only the output is cached; extractor state (direct-source maps, resolution
// caches) stays unit-local and is never shared through here.
type ResultCache struct {
	client valkey.Client
	ttl    time.Duration
}

func NewResultCache(client valkey.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives the cache key for a unit's raw SQL text.
func (c *ResultCache) Key(sqlText string) string {
	sum := sha256.Sum256([]byte(sqlText))
	return "joingraph:unit:" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for a key, or (nil, nil) on a miss.
func (c *ResultCache) Get(ctx context.Context, key string) (*models.UnitResult, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, err := resp.AsBytes()
	if err != nil {
		return nil, err
	}
	var result models.UnitResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Set stores a unit result under the key with the cache TTL.
func (c *ResultCache) Set(ctx context.Context, key string, result *models.UnitResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	cmd := c.client.B().Set().Key(key).Value(string(raw)).Ex(c.ttl).Build()
	return c.client.Do(ctx, cmd).Error()
}
