package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

type packageCacheStore interface {
	Summary(ctx context.Context) (*models.PackageSummary, error)
	StoreSummary(ctx context.Context, summary *models.PackageSummary, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// PackageCache fronts the package summary with Redis and records cache
// metrics. A nil or disabled cache always misses. Redis failures are logged
// and treated as misses.
type PackageCache struct {
	store   packageCacheStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewPackageCache constructs a PackageCache. ttl defaults to one minute.
func NewPackageCache(store packageCacheStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *PackageCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageCache{store: store, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled reports whether lookups reach Redis.
func (c *PackageCache) Enabled() bool {
	return c != nil && c.enabled && c.store != nil
}

// Summary returns the cached summary and whether it was a hit.
func (c *PackageCache) Summary(ctx context.Context) (*models.PackageSummary, bool) {
	if !c.Enabled() {
		return nil, false
	}
	start := time.Now()
	summary, err := c.store.Summary(ctx)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("package summary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return summary, true
}

// StoreSummary caches a freshly computed summary.
func (c *PackageCache) StoreSummary(ctx context.Context, summary *models.PackageSummary) {
	if !c.Enabled() {
		return
	}
	start := time.Now()
	err := c.store.StoreSummary(ctx, summary, c.ttl)
	c.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		c.logger.Warn("package summary cache write failed", zap.Error(err))
	}
}

// Invalidate drops cached package read models after a write.
func (c *PackageCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.store.Purge(ctx); err != nil {
		c.logger.Warn("package cache invalidation failed", zap.Error(err))
	}
}
