package handler

import (
	"wallet-ledger/config"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20 // 1 MB

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	DepositSvc     ports.DepositService
	TransferSvc    ports.TransferService
	StatementSvc   ports.StatementService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	RateLimit      config.RateLimitConfig
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.ClientIP())

	r.GET("/", Liveness)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Every group gets its own counter under the same rule.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil || !deps.RateLimit.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		rule := middleware.RateLimitRule{Limit: deps.RateLimit.Requests, Window: deps.RateLimit.Window}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.DepositSvc, deps.StatementSvc)
	wallets := r.Group("/wallets")
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.DELETE("/:walletId", rl("wallets"), walletHandler.Delete)
		wallets.POST("/:walletId/deposits", rl("deposits"), walletHandler.Deposit)
		wallets.GET("/:walletId/statements", rl("statements"), walletHandler.Statement)
	}

	transferHandler := NewTransferHandler(deps.TransferSvc)
	r.POST("/transfers", rl("transfers"), transferHandler.Transfer)

	return r
}
