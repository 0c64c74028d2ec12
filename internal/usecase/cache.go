package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	ProgressDistributionCacheKey = "skills:progress-distribution"
	InsightsCacheKey             = "skills:insights"
)

// aggregateCacheKeys are invalidated by every write to the skills table.
var aggregateCacheKeys = []string{ProgressDistributionCacheKey, InsightsCacheKey}

// InvalidateAggregates drops the cached distribution and insights. Writers
// that bypass Skill, such as bulk seeding, must call it themselves.
func InvalidateAggregates(ctx context.Context, c Cache) error {
	if c == nil {
		return nil
	}
	return c.Delete(ctx, aggregateCacheKeys...)
}

// SummaryCacheKey keys a summary by provider and the exact notes text.
func SummaryCacheKey(provider, notes string) string {
	sum := sha256.Sum256([]byte(notes))
	return "summary:" + provider + ":" + hex.EncodeToString(sum[:])
}
