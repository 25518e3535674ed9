package repositories

import (
	"context"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/models"
)

// SessionRepository defines browser session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.BrowserSession) error
	GetByKeyHash(ctx context.Context, keyHash string) (*models.BrowserSession, error)
	Update(ctx context.Context, session *models.BrowserSession) error
	MarkVerified(ctx context.Context, id uint, at time.Time) error
	RevokeByKeyHash(ctx context.Context, keyHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
