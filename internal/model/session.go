package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthSession is the server-side record of an issued access token. The
// token's jti is the row id.
type AuthSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UserAgent string     `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (AuthSession) TableName() string {
	return "auth_sessions"
}

// Active reports whether the session can still authenticate requests at now.
func (s *AuthSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
