package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/domain/repositories"
	"moneta.backend/pkg/crypto"
	"moneta.backend/pkg/jwt"
	"moneta.backend/pkg/logger"
	"moneta.backend/pkg/mailer"
	"moneta.backend/pkg/redis"
	"moneta.backend/pkg/utils"
)

const resetIdentifierPrefix = "reset-password:"

// AuthUsecase handles authentication business logic. Sessions are opaque
// tokens backed by a DB row plus an encrypted Redis cache of the JWT pair.
type AuthUsecase struct {
	userRepo         repositories.UserRepository
	sessionRepo      repositories.SessionRepository
	verificationRepo repositories.VerificationRepository
	jwtService       *jwt.JWTService
	sessionStore     *redis.SessionStore
	mail             mailer.Mailer
	sessionExpiry    time.Duration
	resetTokenExpiry time.Duration
	baseURL          string
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	verificationRepo repositories.VerificationRepository,
	jwtService *jwt.JWTService,
	sessionStore *redis.SessionStore,
	mail mailer.Mailer,
	sessionExpiry time.Duration,
	resetTokenExpiry time.Duration,
	baseURL string,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:         userRepo,
		sessionRepo:      sessionRepo,
		verificationRepo: verificationRepo,
		jwtService:       jwtService,
		sessionStore:     sessionStore,
		mail:             mail,
		sessionExpiry:    sessionExpiry,
		resetTokenExpiry: resetTokenExpiry,
		baseURL:          baseURL,
	}
}

// AuthResult bundles the signed-in user with their session token
type AuthResult struct {
	User    *entities.User
	Session *entities.Session
}

// Register creates a new account and signs it in
func (u *AuthUsecase) Register(ctx context.Context, input *entities.SignUpInput, ipAddress, userAgent string) (*AuthResult, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	session, err := u.createSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: session}, nil
}

// Login authenticates a user and opens a session
func (u *AuthUsecase) Login(ctx context.Context, input *entities.SignInInput, ipAddress, userAgent string) (*AuthResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	session, err := u.createSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: session}, nil
}

// Logout revokes a session everywhere it is stored
func (u *AuthUsecase) Logout(ctx context.Context, token string) error {
	if err := u.sessionStore.DeleteSession(ctx, token); err != nil {
		logger.Warn(ctx, "failed to delete cached session", zap.Error(err))
	}

	err := u.sessionRepo.DeleteByToken(ctx, token)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	return err
}

// ResolveSession resolves an opaque session token to its user. Resolution
// is soft: any invalid, expired, or unknown token yields (nil, nil) rather
// than an error so callers can treat the request as anonymous.
func (u *AuthUsecase) ResolveSession(ctx context.Context, token string) (*entities.Identity, error) {
	if token == "" {
		return nil, nil
	}

	// Fast path: a cache hit with a valid access token authenticates the
	// request without touching the sessions table. Cache misses, rejected
	// tokens, and expired entries all fall back to the DB row.
	if data, cacheErr := u.sessionStore.GetSession(ctx, token); cacheErr == nil {
		if identity, ok := u.resolveFromCache(ctx, token, data); ok {
			return identity, nil
		}
	}

	session, err := u.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}

	user, err := u.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entities.Identity{User: user, Session: session}, nil
}

// resolveFromCache rebuilds the identity from a cached token pair. The
// access token's claims drive the user lookup; anything off about the entry
// reports false so the caller retries against the DB.
func (u *AuthUsecase) resolveFromCache(ctx context.Context, token string, data *redis.SessionData) (*entities.Identity, bool) {
	claims, err := u.jwtService.ValidateToken(data.AccessToken)
	if err != nil {
		logger.Debug(ctx, "cached access token rejected", zap.Error(err))
		return nil, false
	}
	if !time.Now().Before(data.ExpiresAt) {
		return nil, false
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, false
	}

	session := &entities.Session{
		ID:        data.SessionID,
		UserID:    claims.UserID,
		Token:     token,
		ExpiresAt: data.ExpiresAt,
	}
	return &entities.Identity{User: user, Session: session}, true
}

// ForgotPassword issues a reset token and emails a reset link. The outcome
// is identical whether or not the address has an account.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return err
	}

	verification := &entities.Verification{
		ID:         utils.GenerateUUIDv7(),
		Identifier: resetIdentifierPrefix + user.Email,
		Value:      token,
		ExpiresAt:  time.Now().Add(u.resetTokenExpiry),
	}
	if err := u.verificationRepo.Create(ctx, verification); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", u.baseURL, token)
	if err := u.mail.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		logger.Warn(ctx, "failed to send reset email", zap.Error(err))
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password. Every
// open session of the user is revoked.
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	verification, err := u.verificationRepo.GetByValue(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrTokenExpired
		}
		return err
	}
	if time.Now().After(verification.ExpiresAt) {
		_ = u.verificationRepo.Delete(ctx, verification.ID)
		return domainerrors.ErrTokenExpired
	}

	email := verification.Identifier[len(resetIdentifierPrefix):]
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	if err := u.verificationRepo.Delete(ctx, verification.ID); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}

	tokens, err := u.sessionRepo.DeleteByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	// drop the cached copies too, or revoked tokens would keep resolving
	// until their cache entries expire
	for _, revoked := range tokens {
		if err := u.sessionStore.DeleteSession(ctx, revoked); err != nil {
			logger.Warn(ctx, "failed to evict cached session", zap.Error(err))
		}
	}
	return nil
}

func (u *AuthUsecase) createSession(ctx context.Context, user *entities.User, ipAddress, userAgent string) (*entities.Session, error) {
	token, err := crypto.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &entities.Session{
		ID:        utils.GenerateUUIDv7(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(u.sessionExpiry),
	}
	if ipAddress != "" {
		session.IPAddress.SetValid(ipAddress)
	}
	if userAgent != "" {
		session.UserAgent.SetValid(userAgent)
	}

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	data := &redis.SessionData{
		SessionID:    session.ID,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	}
	if err := u.sessionStore.CreateSession(ctx, token, data, u.sessionExpiry); err != nil {
		// cache write failures degrade to DB-only sessions
		logger.Warn(ctx, "failed to cache session", zap.Error(err))
	}

	return session, nil
}
