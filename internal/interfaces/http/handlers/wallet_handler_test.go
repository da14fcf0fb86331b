package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/interfaces/http/middleware"
	"moneta.backend/internal/interfaces/http/validation"
	"moneta.backend/pkg/utils"
)

var validatorsOnce sync.Once

type walletServiceStub struct {
	wallets    []*entities.Wallet
	meta       utils.PaginationMeta
	wallet     *entities.Wallet
	err        error
	lastUserID uuid.UUID
	lastUpdate *entities.UpdateWalletInput
}

func (s *walletServiceStub) List(_ context.Context, userID uuid.UUID, _ *entities.ListWalletsQuery) ([]*entities.Wallet, utils.PaginationMeta, error) {
	s.lastUserID = userID
	return s.wallets, s.meta, s.err
}

func (s *walletServiceStub) Create(_ context.Context, userID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error) {
	s.lastUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	if s.wallet != nil {
		return s.wallet, nil
	}
	return &entities.Wallet{ID: uuid.New(), UserID: userID, Name: input.Name}, nil
}

func (s *walletServiceStub) Update(_ context.Context, userID, _ uuid.UUID, input *entities.UpdateWalletInput) (*entities.Wallet, error) {
	s.lastUserID = userID
	s.lastUpdate = input
	return s.wallet, s.err
}

func (s *walletServiceStub) Delete(_ context.Context, userID, _ uuid.UUID) error {
	s.lastUserID = userID
	return s.err
}

func (s *walletServiceStub) SetDefault(_ context.Context, userID, _ uuid.UUID) (*entities.Wallet, error) {
	s.lastUserID = userID
	return s.wallet, s.err
}

func newWalletRouter(t *testing.T, stub *walletServiceStub, authenticated bool) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validatorsOnce.Do(func() {
		require.NoError(t, validation.Register())
	})

	userID := uuid.New()
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserKey, &entities.User{ID: userID, Email: "t@example.com"})
			c.Set(middleware.SessionKey, &entities.Session{ID: uuid.New(), UserID: userID, Token: "tok"})
			c.Next()
		})
	}

	h := &WalletHandler{walletUsecase: stub}
	r.GET("/api/wallets", h.ListWallets)
	r.POST("/api/wallets", h.CreateWallet)
	r.PUT("/api/wallets/:walletId", h.UpdateWallet)
	r.DELETE("/api/wallets/:walletId", h.DeleteWallet)
	r.PATCH("/api/wallets/:walletId/set-default", h.SetDefaultWallet)
	return r, userID
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestListWallets_Success(t *testing.T) {
	stub := &walletServiceStub{
		wallets: []*entities.Wallet{{ID: uuid.New(), Name: "W1"}},
		meta:    utils.CalculateMeta(45, 1, 20),
	}
	r, userID := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodGet, "/api/wallets?page=1&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success", body["status"])
	require.Equal(t, userID, stub.lastUserID)

	data := body["data"].(map[string]interface{})
	wallets, ok := data["wallets"].([]interface{})
	require.True(t, ok, "payload must nest the page under wallets")
	require.Len(t, wallets, 1)
	pagination := data["pagination"].(map[string]interface{})
	require.Equal(t, float64(45), pagination["total"])
	require.Equal(t, float64(3), pagination["totalPages"])
	require.Equal(t, true, pagination["hasNext"])
}

func TestListWallets_EmptyIsArrayNotNull(t *testing.T) {
	stub := &walletServiceStub{meta: utils.CalculateMeta(0, 1, 20)}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodGet, "/api/wallets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	wallets, ok := data["wallets"].([]interface{})
	require.True(t, ok, "wallets must be an array even when empty")
	require.Empty(t, wallets)
	pagination := data["pagination"].(map[string]interface{})
	require.Equal(t, float64(0), pagination["totalPages"])
}

func TestListWallets_Unauthenticated(t *testing.T) {
	r, _ := newWalletRouter(t, &walletServiceStub{}, false)

	w, body := doJSON(t, r, http.MethodGet, "/api/wallets", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]interface{})
	require.Equal(t, domainerrors.CodeAuthRequired, errObj["code"])
}

func TestCreateWallet_Success(t *testing.T) {
	stub := &walletServiceStub{}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodPost, "/api/wallets", gin.H{
		"name": "BCA", "type": "checking", "balance": "100.50",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "success", body["status"])
	require.Equal(t, "BCA", body["data"].(map[string]interface{})["name"])
}

func TestCreateWallet_ValidationFailure(t *testing.T) {
	r, _ := newWalletRouter(t, &walletServiceStub{}, true)

	w, body := doJSON(t, r, http.MethodPost, "/api/wallets", gin.H{
		"name": "BCA", "type": "checking", "balance": "12.345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "error", body["status"])
	errs := body["errors"].([]interface{})
	require.NotEmpty(t, errs)
	first := errs[0].(map[string]interface{})
	require.Equal(t, "balance", first["path"])
}

func TestCreateWallet_MissingRequiredFields(t *testing.T) {
	r, _ := newWalletRouter(t, &walletServiceStub{}, true)

	w, body := doJSON(t, r, http.MethodPost, "/api/wallets", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].([]interface{})
	paths := map[string]bool{}
	for _, e := range errs {
		paths[e.(map[string]interface{})["path"].(string)] = true
	}
	require.True(t, paths["name"])
	require.True(t, paths["type"])
}

func TestUpdateWallet_NotOwnedIs404(t *testing.T) {
	stub := &walletServiceStub{err: domainerrors.ErrNotFound}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodPut, "/api/wallets/"+uuid.New().String(), gin.H{"name": "X"})
	require.Equal(t, http.StatusNotFound, w.Code, "non-owned wallets are 404, never 403")
	errObj := body["error"].(map[string]interface{})
	require.Equal(t, domainerrors.CodeNotFound, errObj["code"])
}

func TestUpdateWallet_InvalidID(t *testing.T) {
	r, _ := newWalletRouter(t, &walletServiceStub{}, true)

	w, body := doJSON(t, r, http.MethodPut, "/api/wallets/not-a-uuid", gin.H{"name": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].([]interface{})
	require.Equal(t, "walletId", errs[0].(map[string]interface{})["path"])
}

func TestUpdateWallet_Success(t *testing.T) {
	wallet := &entities.Wallet{ID: uuid.New(), Name: "Renamed"}
	stub := &walletServiceStub{wallet: wallet}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodPut, "/api/wallets/"+wallet.ID.String(), gin.H{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Renamed", body["data"].(map[string]interface{})["name"])
}

func TestUpdateWallet_NullClearsNullableField(t *testing.T) {
	wallet := &entities.Wallet{ID: uuid.New(), Name: "Mine"}
	stub := &walletServiceStub{wallet: wallet}
	r, _ := newWalletRouter(t, stub, true)

	w, _ := doJSON(t, r, http.MethodPut, "/api/wallets/"+wallet.ID.String(),
		gin.H{"description": nil, "institutionName": "BCA"})
	require.Equal(t, http.StatusOK, w.Code)

	require.True(t, stub.lastUpdate.Description.Set, "explicit null is a provided field")
	require.False(t, stub.lastUpdate.Description.Value.Valid, "null carries no value")
	require.True(t, stub.lastUpdate.InstitutionName.Set)
	require.Equal(t, "BCA", stub.lastUpdate.InstitutionName.Value.String)
	require.False(t, stub.lastUpdate.AccountNumber.Set, "absent fields stay unset")
}

func TestUpdateWallet_NullableFieldStillValidated(t *testing.T) {
	wallet := &entities.Wallet{ID: uuid.New()}
	stub := &walletServiceStub{wallet: wallet}
	r, _ := newWalletRouter(t, stub, true)

	long := strings.Repeat("x", 501)
	w, body := doJSON(t, r, http.MethodPut, "/api/wallets/"+wallet.ID.String(),
		gin.H{"description": long})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].([]interface{})
	first := errs[0].(map[string]interface{})
	require.Equal(t, "description", first["path"])
}

func TestDeleteWallet_Conflict(t *testing.T) {
	stub := &walletServiceStub{err: domainerrors.ErrHasTransactions}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodDelete, "/api/wallets/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	errObj := body["error"].(map[string]interface{})
	require.Equal(t, domainerrors.CodeConflict, errObj["code"])
}

func TestDeleteWallet_AlreadyGoneIs404(t *testing.T) {
	stub := &walletServiceStub{err: domainerrors.ErrNotFound}
	r, _ := newWalletRouter(t, stub, true)

	w, _ := doJSON(t, r, http.MethodDelete, "/api/wallets/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWallet_Success(t *testing.T) {
	r, _ := newWalletRouter(t, &walletServiceStub{}, true)

	w, body := doJSON(t, r, http.MethodDelete, "/api/wallets/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success", body["status"])
}

func TestSetDefaultWallet_InactiveIs404(t *testing.T) {
	stub := &walletServiceStub{err: domainerrors.ErrNotFound}
	r, _ := newWalletRouter(t, stub, true)

	w, _ := doJSON(t, r, http.MethodPatch, "/api/wallets/"+uuid.New().String()+"/set-default", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetDefaultWallet_Success(t *testing.T) {
	wallet := &entities.Wallet{ID: uuid.New(), Name: "Main", IsDefault: true}
	stub := &walletServiceStub{wallet: wallet}
	r, _ := newWalletRouter(t, stub, true)

	w, body := doJSON(t, r, http.MethodPatch, "/api/wallets/"+wallet.ID.String()+"/set-default", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["data"].(map[string]interface{})["isDefault"])
}
