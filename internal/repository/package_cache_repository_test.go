package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	appErrors "github.com/campus-mailroom/mailroom-api/pkg/errors"
)

func TestPackageCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewPackageCacheRepository(nil)
	ctx := context.Background()

	_, err := repo.Summary(ctx)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.StoreSummary(ctx, &models.PackageSummary{Total: 1}, time.Minute))
	assert.NoError(t, repo.Purge(ctx))
}

func TestPackageCacheRepositoryReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	repo := NewPackageCacheRepository(client)
	ctx := context.Background()

	_, err := repo.Summary(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Contains(t, err.Error(), "packages:summary")
	assert.Error(t, repo.StoreSummary(ctx, &models.PackageSummary{}, time.Minute))
	assert.Error(t, repo.Purge(ctx))
}
