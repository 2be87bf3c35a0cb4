package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	memStorage "wallet-ledger/internal/adapter/storage/memory"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ledgerStore bundles the repositories and transactor of one storage backend.
type ledgerStore struct {
	wallets    ports.WalletRepository
	deposits   ports.DepositRepository
	transfers  ports.TransferRepository
	statements ports.StatementRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
	close      func()
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*ledgerStore, error) {
	if cfg.Database.Migrate {
		if err := pgStorage.RunMigrations(cfg.Database, log); err != nil {
			return nil, err
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("PostgreSQL connected")

	return &ledgerStore{
		wallets:    pgStorage.NewWalletRepo(pool),
		deposits:   pgStorage.NewDepositRepo(),
		transfers:  pgStorage.NewTransferRepo(),
		statements: pgStorage.NewStatementRepo(pool),
		transactor: pgStorage.NewTransactor(pool, cfg.Database.TxMaxRetries, log),
		health:     pgStorage.NewHealthCheck(pool),
		close:      pool.Close,
	}, nil
}

func openMemory(log zerolog.Logger) *ledgerStore {
	store := memStorage.NewStore()
	log.Warn().Msg("Using in-memory ledger store, data is lost on restart")

	return &ledgerStore{
		wallets:    memStorage.NewWalletRepo(store),
		deposits:   memStorage.NewDepositRepo(store),
		transfers:  memStorage.NewTransferRepo(store),
		statements: memStorage.NewStatementRepo(store),
		transactor: store,
		health:     memStorage.HealthCheck{},
		close:      func() {},
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("WLG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Backend).
		Int("port", cfg.Server.Port).
		Msg("Starting Wallet Ledger")

	ctx := context.Background()

	var store *ledgerStore
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		store = openMemory(log)
	default:
		store, err = openPostgres(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL store")
		}
	}
	defer store.close()

	checkers := []ports.HealthChecker{store.health}

	// Redis only backs rate limiting, so the ledger keeps serving without it.
	var rateLimitStore ports.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Info().Msg("Redis disabled, rate limiting is off")
	}

	walletSvc := service.NewWalletService(store.wallets, store.transactor, log)
	depositSvc := service.NewDepositService(store.wallets, store.deposits, store.transactor, log)
	transferSvc := service.NewTransferService(store.wallets, store.transfers, store.transactor, log)
	statementSvc := service.NewStatementService(store.wallets, store.statements, cfg.Statement, log)

	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		DepositSvc:     depositSvc,
		TransferSvc:    transferSvc,
		StatementSvc:   statementSvc,
		RateLimitStore: rateLimitStore,
		RateLimit:      cfg.RateLimit,
		HealthCheckers: checkers,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
