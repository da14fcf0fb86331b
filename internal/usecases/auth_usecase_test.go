package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/pkg/crypto"
	"moneta.backend/pkg/jwt"
	"moneta.backend/pkg/redis"
)

const testEncryptionKey = "0000000000000000000000000000000000000000000000000000000000000000"

type userRepoStub struct {
	byID    map[uuid.UUID]*entities.User
	byEmail map[string]*entities.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		byID:    map[uuid.UUID]*entities.User{},
		byEmail: map[string]*entities.User{},
	}
}

func (s *userRepoStub) Create(_ context.Context, user *entities.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return errors.New("unique constraint violation")
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return user, nil
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return user, nil
}

func (s *userRepoStub) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type sessionRepoStub struct {
	byToken map[string]*entities.Session
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{byToken: map[string]*entities.Session{}}
}

func (s *sessionRepoStub) Create(_ context.Context, session *entities.Session) error {
	s.byToken[session.Token] = session
	return nil
}

func (s *sessionRepoStub) GetByToken(_ context.Context, token string) (*entities.Session, error) {
	session, ok := s.byToken[token]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) DeleteByToken(_ context.Context, token string) error {
	if _, ok := s.byToken[token]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(s.byToken, token)
	return nil
}

func (s *sessionRepoStub) DeleteByUserID(_ context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	for token, session := range s.byToken {
		if session.UserID == userID {
			tokens = append(tokens, token)
			delete(s.byToken, token)
		}
	}
	return tokens, nil
}

func (s *sessionRepoStub) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type verificationRepoStub struct {
	byValue map[string]*entities.Verification
}

func newVerificationRepoStub() *verificationRepoStub {
	return &verificationRepoStub{byValue: map[string]*entities.Verification{}}
}

func (s *verificationRepoStub) Create(_ context.Context, v *entities.Verification) error {
	s.byValue[v.Value] = v
	return nil
}

func (s *verificationRepoStub) GetByValue(_ context.Context, value string) (*entities.Verification, error) {
	v, ok := s.byValue[value]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return v, nil
}

func (s *verificationRepoStub) Delete(_ context.Context, id uuid.UUID) error {
	for value, v := range s.byValue {
		if v.ID == id {
			delete(s.byValue, value)
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (s *verificationRepoStub) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type mailerStub struct {
	sent     int
	lastTo   string
	lastURL  string
	sendErr  error
	lastName string
}

func (m *mailerStub) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	m.sent++
	m.lastTo = to
	m.lastName = name
	m.lastURL = resetURL
	return m.sendErr
}

type authFixture struct {
	usecase       *AuthUsecase
	users         *userRepoStub
	sessions      *sessionRepoStub
	verifications *verificationRepoStub
	mail          *mailerStub
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	store, err := redis.NewSessionStore(testEncryptionKey)
	require.NoError(t, err)

	users := newUserRepoStub()
	sessions := newSessionRepoStub()
	verifications := newVerificationRepoStub()
	mail := &mailerStub{}

	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
	usecase := NewAuthUsecase(
		users, sessions, verifications,
		jwtService, store, mail,
		24*time.Hour, time.Hour, "http://localhost:8080",
	)
	return &authFixture{
		usecase:       usecase,
		users:         users,
		sessions:      sessions,
		verifications: verifications,
		mail:          mail,
	}
}

func TestAuthUsecase_RegisterAndDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Budi", Email: "budi@example.com", Password: "supersecret",
	}, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.Equal(t, "Budi", result.User.Name)
	require.Len(t, result.Session.Token, 64)
	require.Equal(t, "10.0.0.1", result.Session.IPAddress.String)
	require.NotEqual(t, "supersecret", result.User.PasswordHash)
	require.True(t, crypto.CheckPassword("supersecret", result.User.PasswordHash))

	_, err = f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Clone", Email: "budi@example.com", Password: "whatever1",
	}, "", "")
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_LoginAndBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Sari", Email: "sari@example.com", Password: "correcthorse",
	}, "", "")
	require.NoError(t, err)

	result, err := f.usecase.Login(ctx, &entities.SignInInput{
		Email: "sari@example.com", Password: "correcthorse",
	}, "", "agent")
	require.NoError(t, err)
	require.Equal(t, "Sari", result.User.Name)
	require.NotEmpty(t, result.Session.Token)

	_, err = f.usecase.Login(ctx, &entities.SignInInput{
		Email: "sari@example.com", Password: "wrongpass",
	}, "", "")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// unknown accounts look identical to wrong passwords
	_, err = f.usecase.Login(ctx, &entities.SignInInput{
		Email: "ghost@example.com", Password: "whatever",
	}, "", "")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_ResolveSessionSoftFail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Resolve", Email: "resolve@example.com", Password: "supersecret",
	}, "", "")
	require.NoError(t, err)

	identity, err := f.usecase.ResolveSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.NotNil(t, identity)
	require.Equal(t, result.User.ID, identity.User.ID)

	// empty and unknown tokens resolve to anonymous, not an error
	identity, err = f.usecase.ResolveSession(ctx, "")
	require.NoError(t, err)
	require.Nil(t, identity)

	identity, err = f.usecase.ResolveSession(ctx, "deadbeef")
	require.NoError(t, err)
	require.Nil(t, identity)

	// expired sessions are anonymous too; the cache entry shares the
	// session TTL, so expiry means it is gone as well
	f.sessions.byToken[result.Session.Token].ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.usecase.sessionStore.DeleteSession(ctx, result.Session.Token))
	identity, err = f.usecase.ResolveSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.Nil(t, identity)
}

func TestAuthUsecase_ResolveSessionCacheFastPath(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Cached", Email: "cached@example.com", Password: "supersecret",
	}, "", "")
	require.NoError(t, err)
	token := result.Session.Token

	// a cache hit authenticates without the sessions table
	delete(f.sessions.byToken, token)
	identity, err := f.usecase.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, identity)
	require.Equal(t, result.User.ID, identity.User.ID)
	require.Equal(t, result.Session.ID, identity.Session.ID)
	require.Equal(t, token, identity.Session.Token)

	// a tampered access token falls back to the DB row, which is gone
	require.NoError(t, f.usecase.sessionStore.CreateSession(ctx, token, &redis.SessionData{
		SessionID:    result.Session.ID,
		AccessToken:  "not-a-jwt",
		RefreshToken: "not-a-jwt",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, time.Hour))
	identity, err = f.usecase.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.Nil(t, identity)
}

func TestAuthUsecase_ResolveSessionCacheExpiredEntry(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Stale", Email: "stale@example.com", Password: "supersecret",
	}, "", "")
	require.NoError(t, err)
	token := result.Session.Token

	// a stale cache entry past its session expiry never authenticates,
	// even when the access token inside it still validates
	data, err := f.usecase.sessionStore.GetSession(ctx, token)
	require.NoError(t, err)
	data.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.usecase.sessionStore.CreateSession(ctx, token, data, time.Hour))
	delete(f.sessions.byToken, token)

	identity, err := f.usecase.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.Nil(t, identity)
}

func TestAuthUsecase_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Out", Email: "out@example.com", Password: "supersecret",
	}, "", "")
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(ctx, result.Session.Token))

	identity, err := f.usecase.ResolveSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.Nil(t, identity)

	// logging out an already-dead token is not an error
	require.NoError(t, f.usecase.Logout(ctx, result.Session.Token))
}

func TestAuthUsecase_ForgotPasswordNoEnumeration(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Forget", Email: "forget@example.com", Password: "supersecret",
	}, "", "")
	require.NoError(t, err)

	require.NoError(t, f.usecase.ForgotPassword(ctx, "forget@example.com"))
	require.Equal(t, 1, f.mail.sent)
	require.Equal(t, "forget@example.com", f.mail.lastTo)
	require.Contains(t, f.mail.lastURL, "/reset-password?token=")

	// unknown addresses succeed silently and send nothing
	require.NoError(t, f.usecase.ForgotPassword(ctx, "nobody@example.com"))
	require.Equal(t, 1, f.mail.sent)
}

func TestAuthUsecase_ResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Reset", Email: "reset@example.com", Password: "oldpassword",
	}, "", "")
	require.NoError(t, err)

	require.NoError(t, f.usecase.ForgotPassword(ctx, "reset@example.com"))
	require.Len(t, f.verifications.byValue, 1)
	var token string
	for value := range f.verifications.byValue {
		token = value
	}

	require.NoError(t, f.usecase.ResetPassword(ctx, token, "newpassword1"))

	// token is single use
	require.ErrorIs(t, f.usecase.ResetPassword(ctx, token, "again"), domainerrors.ErrTokenExpired)

	// open sessions are revoked
	identity, err := f.usecase.ResolveSession(ctx, result.Session.Token)
	require.NoError(t, err)
	require.Nil(t, identity)

	_, err = f.usecase.Login(ctx, &entities.SignInInput{Email: "reset@example.com", Password: "oldpassword"}, "", "")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = f.usecase.Login(ctx, &entities.SignInInput{Email: "reset@example.com", Password: "newpassword1"}, "", "")
	require.NoError(t, err)
}

func TestAuthUsecase_ResetPasswordExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Register(ctx, &entities.SignUpInput{
		Name: "Stale", Email: "stale@example.com", Password: "oldpassword",
	}, "", "")
	require.NoError(t, err)

	require.NoError(t, f.usecase.ForgotPassword(ctx, "stale@example.com"))
	for _, v := range f.verifications.byValue {
		v.ExpiresAt = time.Now().Add(-time.Minute)
	}
	var token string
	for value := range f.verifications.byValue {
		token = value
	}

	require.ErrorIs(t, f.usecase.ResetPassword(ctx, token, "newpassword1"), domainerrors.ErrTokenExpired)
	require.ErrorIs(t, f.usecase.ResetPassword(ctx, "unknown-token", "newpassword1"), domainerrors.ErrTokenExpired)
}
