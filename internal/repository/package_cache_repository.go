package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

const (
	packageCachePrefix = "packages:"
	packageSummaryKey  = packageCachePrefix + "summary"
	purgeBatch         = 100
)

// PackageCacheRepository keeps package read models in Redis under the
// "packages:" namespace. A nil client reports every read as a miss and
// every write as done.
type PackageCacheRepository struct {
	client *redis.Client
}

// NewPackageCacheRepository constructs a PackageCacheRepository.
func NewPackageCacheRepository(client *redis.Client) *PackageCacheRepository {
	return &PackageCacheRepository{client: client}
}

// Summary returns the cached status summary or appErrors.ErrCacheMiss.
func (r *PackageCacheRepository) Summary(ctx context.Context) (*models.PackageSummary, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, packageSummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appErrors.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", packageSummaryKey, err)
	}
	var summary models.PackageSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, nil
}

// StoreSummary caches the status summary for ttl.
func (r *PackageCacheRepository) StoreSummary(ctx context.Context, summary *models.PackageSummary, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := r.client.Set(ctx, packageSummaryKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", packageSummaryKey, err)
	}
	return nil
}

// Purge drops every key in the package namespace.
func (r *PackageCacheRepository) Purge(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	iter := r.client.Scan(ctx, 0, packageCachePrefix+"*", purgeBatch).Iterator()
	keys := make([]string, 0, purgeBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == purgeBatch {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis unlink package keys: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan package keys: %w", err)
	}
	if len(keys) > 0 {
		if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis unlink package keys: %w", err)
		}
	}
	return nil
}
