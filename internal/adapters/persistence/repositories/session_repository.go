package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/models"
	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"gorm.io/gorm"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new browser session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row
func (r *sessionRepository) Create(ctx context.Context, session *models.BrowserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByKeyHash gets a live session by the hash of its cookie key
func (r *sessionRepository) GetByKeyHash(ctx context.Context, keyHash string) (*models.BrowserSession, error) {
	var session models.BrowserSession
	err := r.db.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		Where("revoked_at IS NULL").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update writes every column of the row
func (r *sessionRepository) Update(ctx context.Context, session *models.BrowserSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// MarkVerified records the last successful check against the API
func (r *sessionRepository) MarkVerified(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.BrowserSession{}).
		Where("id = ?", id).
		Update("last_verified_at", at).Error
}

// RevokeByKeyHash revokes a session by its key hash. Revoking twice is a no-op.
func (r *sessionRepository) RevokeByKeyHash(ctx context.Context, keyHash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.BrowserSession{}).
		Where("key_hash = ?", keyHash).
		Where("revoked_at IS NULL").
		Updates(map[string]interface{}{
			"revoked_at":    &now,
			"authenticated": false,
			"api_token":     "",
		}).Error
}

// RevokeAllByUserID revokes every open session of a user
func (r *sessionRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.BrowserSession{}).
		Where("user_id = ?", userID).
		Where("revoked_at IS NULL").
		Updates(map[string]interface{}{
			"revoked_at":    &now,
			"authenticated": false,
			"api_token":     "",
		}).Error
}

// DeleteExpired deletes expired and revoked sessions (cleanup job)
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", now).
		Delete(&models.BrowserSession{})
	return result.RowsAffected, result.Error
}
