package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Browser sessions
// ============================================================

// BrowserSession represents browser_sessions table.
// One row holds the user, the API token and the authenticated flag of a browser so the
// three are always read and written together.
type BrowserSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	KeyHash        string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	UserID         uint       `gorm:"index" json:"user_id"`
	Role           string     `gorm:"size:20" json:"role"`
	UserJSON       string     `gorm:"type:text" json:"-"`
	APIToken       string     `gorm:"type:text" json:"-"`
	Authenticated  bool       `gorm:"default:false" json:"authenticated"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	LastVerifiedAt *time.Time `json:"last_verified_at"`
	RevokedAt      *time.Time `gorm:"index" json:"revoked_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BrowserSession) TableName() string {
	return "browser_sessions"
}

func (s *BrowserSession) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *BrowserSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NeedsVerification reports whether the row is due for a check against the API.
// A zero interval means every request.
func (s *BrowserSession) NeedsVerification(now time.Time, every time.Duration) bool {
	if s.LastVerifiedAt == nil || every <= 0 {
		return true
	}
	return now.Sub(*s.LastVerifiedAt) >= every
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BrowserSession{},
	)
}
