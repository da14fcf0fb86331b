package repositories

import (
	"context"

	"github.com/google/uuid"
	"moneta.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// SessionRepository defines session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByToken(ctx context.Context, token string) (*entities.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUserID removes every session belonging to a user and reports
	// the revoked tokens so cached copies can be invalidated too.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// VerificationRepository defines password reset token operations
type VerificationRepository interface {
	Create(ctx context.Context, verification *entities.Verification) error
	GetByValue(ctx context.Context, value string) (*entities.Verification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
