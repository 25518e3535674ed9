//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/models"
	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSessionRepositoryPostgres(t *testing.T) {
	ctx := context.Background()

	pgC, err := postgres.Run(ctx, "postgres:16",
		postgres.WithDatabase("babimmob_front"),
		postgres.WithUsername("babimmob"),
		postgres.WithPassword("babimmob"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgC)
	require.NoError(t, err)

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	repo := NewSessionRepository(db)
	now := time.Now()

	live := &models.BrowserSession{KeyHash: "live", UserID: 1, Role: "owner", APIToken: "t1", Authenticated: true, ExpiresAt: now.Add(time.Hour)}
	stale := &models.BrowserSession{KeyHash: "stale", UserID: 2, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	got, err := repo.GetByKeyHash(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.APIToken)

	require.NoError(t, repo.MarkVerified(ctx, got.ID, now))
	got, err = repo.GetByKeyHash(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, got.LastVerifiedAt)

	require.NoError(t, repo.RevokeByKeyHash(ctx, "live"))
	require.NoError(t, repo.RevokeByKeyHash(ctx, "live"))
	_, err = repo.GetByKeyHash(ctx, "live")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
