package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"moneta.backend/internal/interfaces/http/handlers"
)

func passthrough(c *gin.Context) { c.Next() }

func TestRegisterAPIRoutes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIRoutes(r, routeDeps{
		authHandler:       &handlers.AuthHandler{},
		walletHandler:     &handlers.WalletHandler{},
		sessionMiddleware: passthrough,
		requireAuth:       passthrough,
		authRateLimit:     passthrough,
		signInRateLimit:   passthrough,
	})

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/auth/sign-up"},
		{"POST", "/api/auth/sign-in"},
		{"POST", "/api/auth/sign-out"},
		{"GET", "/api/auth/me"},
		{"POST", "/api/auth/forgot-password"},
		{"POST", "/api/auth/reset-password"},
		{"GET", "/api/wallets"},
		{"POST", "/api/wallets"},
		{"PUT", "/api/wallets/:walletId"},
		{"DELETE", "/api/wallets/:walletId"},
		{"PATCH", "/api/wallets/:walletId/set-default"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterAPIRoutes_RouteResponds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r)
	registerAPIRoutes(r, routeDeps{
		authHandler:       &handlers.AuthHandler{},
		walletHandler:     &handlers.WalletHandler{},
		sessionMiddleware: passthrough,
		requireAuth:       passthrough,
		authRateLimit:     passthrough,
		signInRateLimit:   passthrough,
	})

	// Smoke: unrelated helper route still works after route registration.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
