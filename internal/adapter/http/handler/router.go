package handler

import (
	"dice-token-backend/internal/adapter/http/middleware"
	"dice-token-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	RollSvc        ports.RollService
	ReferralSvc    ports.ReferralService
	Connector      ports.WalletConnector // nil = wallet pairing disabled
	HealthCheckers []ports.HealthChecker
	APIKey         string // "" = auth disabled (local development)
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes, all guarded by the bot's API key
	v1 := r.Group("/api/v1", middleware.APIKeyAuth(deps.APIKey, deps.Logger))

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.POST("/select", walletHandler.Select)
		wallets.GET("/active", walletHandler.Active)
	}

	rollHandler := NewRollHandler(deps.RollSvc)
	rolls := v1.Group("/rolls")
	{
		rolls.POST("", rollHandler.Roll)
		rolls.GET("", rollHandler.History)
	}

	referralHandler := NewReferralHandler(deps.ReferralSvc)
	referrals := v1.Group("/referrals")
	{
		referrals.GET("/:identity", referralHandler.Get)
		referrals.POST("/redeem", referralHandler.Redeem)
	}

	if deps.Connector != nil {
		connectHandler := NewConnectHandler(deps.Connector)
		v1.POST("/connect", connectHandler.Connect)
	}

	return r
}
