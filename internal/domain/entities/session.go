package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Session is a server-side login session identified by an opaque token
type Session struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Token     string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
	IPAddress null.String `json:"ipAddress"`
	UserAgent null.String `json:"userAgent"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Verification is a single-use password reset token
type Verification struct {
	ID         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Value      string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Identity bundles the resolved user and session for a request.
// A nil Identity means the request is anonymous.
type Identity struct {
	User    *User
	Session *Session
}
