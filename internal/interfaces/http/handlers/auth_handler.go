package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/interfaces/http/middleware"
	"moneta.backend/internal/interfaces/http/response"
	"moneta.backend/internal/interfaces/http/validation"
	"moneta.backend/internal/usecases"
)

type authService interface {
	Register(ctx context.Context, input *entities.SignUpInput, ipAddress, userAgent string) (*usecases.AuthResult, error)
	Login(ctx context.Context, input *entities.SignInInput, ipAddress, userAgent string) (*usecases.AuthResult, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase authService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// SignUp registers a new account and opens a session
// POST /api/auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var input entities.SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	result, err := h.authUsecase.Register(c.Request.Context(), &input, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			response.Error(c, domainerrors.Conflict("An account with this email already exists"))
			return
		}
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, result.Session)
	response.Success(c, http.StatusCreated, "Account created successfully", sessionPayload(result))
}

// SignIn authenticates a user and opens a session
// POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var input entities.SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), &input, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			response.Error(c, domainerrors.Unauthorized("Invalid email or password"))
			return
		}
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, result.Session)
	response.Success(c, http.StatusOK, "Signed in successfully", sessionPayload(result))
}

// SignOut revokes the current session
// POST /api/auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), session.Token); err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, "Signed out successfully", nil)
}

// Me returns the current user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	response.Success(c, http.StatusOK, "User fetched successfully", gin.H{"user": user})
}

// ForgotPassword issues a password reset token. The response never reveals
// whether the address has an account.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword consumes a reset token and sets a new password
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		if errors.Is(err, domainerrors.ErrTokenExpired) || errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.BadRequest("Invalid or expired reset token"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session *entities.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", false, true)
}

func sessionPayload(result *usecases.AuthResult) gin.H {
	return gin.H{
		"user": result.User,
		"session": gin.H{
			"token":     result.Session.Token,
			"expiresAt": result.Session.ExpiresAt,
		},
	}
}
