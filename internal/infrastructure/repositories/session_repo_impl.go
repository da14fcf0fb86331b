package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/infrastructure/models"
)

// SessionRepository implements session data operations
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	m := &models.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		IPAddress: session.IPAddress.Ptr(),
		UserAgent: session.UserAgent.Ptr(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByToken gets a session by its token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*entities.Session, error) {
	var m models.Session
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		IPAddress: null.StringFromPtr(m.IPAddress),
		UserAgent: null.StringFromPtr(m.UserAgent),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// DeleteByToken removes a session by its token
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes every session belonging to a user and returns the
// revoked tokens
func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var tokens []string
	if err := db.Model(&models.Session{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteExpired removes sessions past their expiry and reports how many
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// VerificationRepository implements password reset token operations
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create creates a new verification record
func (r *VerificationRepository) Create(ctx context.Context, verification *entities.Verification) error {
	now := time.Now()
	verification.CreatedAt = now
	verification.UpdatedAt = now

	m := &models.Verification{
		ID:         verification.ID,
		Identifier: verification.Identifier,
		Value:      verification.Value,
		ExpiresAt:  verification.ExpiresAt,
		CreatedAt:  verification.CreatedAt,
		UpdatedAt:  verification.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByValue gets a verification record by its token value
func (r *VerificationRepository) GetByValue(ctx context.Context, value string) (*entities.Verification, error) {
	var m models.Verification
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("value = ?", value).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Verification{
		ID:         m.ID,
		Identifier: m.Identifier,
		Value:      m.Value,
		ExpiresAt:  m.ExpiresAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

// Delete removes a verification record
func (r *VerificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Verification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes verification records past their expiry
func (r *VerificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.Verification{})
	return result.RowsAffected, result.Error
}
