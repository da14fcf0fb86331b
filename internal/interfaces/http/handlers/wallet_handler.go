package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/interfaces/http/middleware"
	"moneta.backend/internal/interfaces/http/response"
	"moneta.backend/internal/interfaces/http/validation"
	"moneta.backend/internal/usecases"
	"moneta.backend/pkg/utils"
)

type walletService interface {
	List(ctx context.Context, userID uuid.UUID, query *entities.ListWalletsQuery) ([]*entities.Wallet, utils.PaginationMeta, error)
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error)
	Update(ctx context.Context, userID, walletID uuid.UUID, input *entities.UpdateWalletInput) (*entities.Wallet, error)
	Delete(ctx context.Context, userID, walletID uuid.UUID) error
	SetDefault(ctx context.Context, userID, walletID uuid.UUID) (*entities.Wallet, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// ListWallets lists the current user's wallets
// GET /api/wallets
func (h *WalletHandler) ListWallets(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var query entities.ListWalletsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	wallets, meta, err := h.walletUsecase.List(c.Request.Context(), user.ID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}

	if wallets == nil {
		wallets = []*entities.Wallet{}
	}

	response.Paginated(c, http.StatusOK, "Wallets fetched successfully", "wallets", wallets, meta)
}

// CreateWallet creates a wallet for the current user
// POST /api/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input entities.CreateWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	wallet, err := h.walletUsecase.Create(c.Request.Context(), user.ID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Wallet created successfully", wallet)
}

// UpdateWallet partially updates an owned wallet
// PUT /api/wallets/:walletId
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	walletID, fieldErr := parseWalletID(c)
	if fieldErr != nil {
		response.ValidationFailed(c, []response.FieldError{*fieldErr})
		return
	}

	var input entities.UpdateWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	wallet, err := h.walletUsecase.Update(c.Request.Context(), user.ID, walletID, &input)
	if err != nil {
		h.mapWalletError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Wallet updated successfully", wallet)
}

// DeleteWallet removes an owned wallet
// DELETE /api/wallets/:walletId
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	walletID, fieldErr := parseWalletID(c)
	if fieldErr != nil {
		response.ValidationFailed(c, []response.FieldError{*fieldErr})
		return
	}

	if err := h.walletUsecase.Delete(c.Request.Context(), user.ID, walletID); err != nil {
		h.mapWalletError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Wallet deleted successfully", nil)
}

// SetDefaultWallet moves the user's default flag to this wallet
// PATCH /api/wallets/:walletId/set-default
func (h *WalletHandler) SetDefaultWallet(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	walletID, fieldErr := parseWalletID(c)
	if fieldErr != nil {
		response.ValidationFailed(c, []response.FieldError{*fieldErr})
		return
	}

	wallet, err := h.walletUsecase.SetDefault(c.Request.Context(), user.ID, walletID)
	if err != nil {
		h.mapWalletError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Default wallet updated successfully", wallet)
}

func parseWalletID(c *gin.Context) (uuid.UUID, *response.FieldError) {
	walletID, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		return uuid.Nil, &response.FieldError{Path: "walletId", Message: "Must be a valid UUID"}
	}
	return walletID, nil
}

func (h *WalletHandler) mapWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		response.Error(c, domainerrors.NotFound("Wallet not found"))
	case errors.Is(err, domainerrors.ErrHasTransactions):
		response.Error(c, domainerrors.Conflict("Wallet has recorded transactions"))
	default:
		response.Error(c, err)
	}
}
