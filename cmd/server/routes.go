package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/interfaces/http/handlers"
	"moneta.backend/internal/interfaces/http/middleware"
	"moneta.backend/internal/interfaces/http/response"
)

const (
	serviceName    = "moneta-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	walletHandler     *handlers.WalletHandler
	sessionMiddleware gin.HandlerFunc
	requireAuth       gin.HandlerFunc
	authRateLimit     gin.HandlerFunc
	signInRateLimit   gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(middleware.CORSMiddleware())
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerRootRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerNoRouteHandler(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, domainerrors.NotFound("Route not found"))
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	api.Use(d.sessionMiddleware)
	{
		auth := api.Group("/auth")
		auth.Use(d.authRateLimit)
		{
			auth.POST("/sign-up", d.authHandler.SignUp)
			auth.POST("/sign-in", d.signInRateLimit, d.authHandler.SignIn)
			auth.POST("/sign-out", d.requireAuth, d.authHandler.SignOut)
			auth.GET("/me", d.requireAuth, d.authHandler.Me)
			auth.POST("/forgot-password", d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
		}

		wallets := api.Group("/wallets")
		wallets.Use(d.requireAuth)
		{
			wallets.GET("", d.walletHandler.ListWallets)
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.PUT("/:walletId", d.walletHandler.UpdateWallet)
			wallets.DELETE("/:walletId", d.walletHandler.DeleteWallet)
			wallets.PATCH("/:walletId/set-default", d.walletHandler.SetDefaultWallet)
		}
	}
}
