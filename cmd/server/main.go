package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/olviko/shiftledger/internal/adapter/http"
	"github.com/olviko/shiftledger/internal/adapter/http/handler"
	postgresRepo "github.com/olviko/shiftledger/internal/adapter/repository/postgres"
	redisRepo "github.com/olviko/shiftledger/internal/adapter/repository/redis"
	"github.com/olviko/shiftledger/internal/infrastructure/auth"
	"github.com/olviko/shiftledger/internal/infrastructure/config"
	"github.com/olviko/shiftledger/internal/infrastructure/eventpublisher"
	"github.com/olviko/shiftledger/internal/infrastructure/logger"
	"github.com/olviko/shiftledger/internal/infrastructure/metrics"
	"github.com/olviko/shiftledger/internal/infrastructure/postgres"
	"github.com/olviko/shiftledger/internal/infrastructure/redis"
	"github.com/olviko/shiftledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid ledger time zone")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	operationRepo := postgresRepo.NewOperationRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.EventsEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	m := metrics.New()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, balanceRepo, cache, m)
	operationUC := usecase.NewOperationUseCase(operationRepo, m)
	postingUC := usecase.NewPostingUseCase(txManager, retrier, accountRepo, entryRepo, balanceRepo, operationRepo, outboxRepo, idGen, m, loc)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, entryRepo, balanceRepo, loc)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			log.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		EntryHandler:     handler.NewEntryHandler(postingUC),
		OperationHandler: handler.NewOperationHandler(operationUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		Logger:           log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	// Track pool usage
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				m.DBConnections.Set(float64(pool.Stat().TotalConns()))
			}
		}
	}()

	// Start outbox publisher in goroutine
	if cfg.EventsEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewRedisPublisher(redisClient, ""),
			Logger:     log,
			Metrics:    m,
			Interval:   cfg.OutboxPollInterval,
		})
		go func() {
			if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
