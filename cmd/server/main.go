package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/mercaldo/ledger/internal/adapter/http"
	"github.com/mercaldo/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/mercaldo/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/mercaldo/ledger/internal/adapter/repository/redis"
	"github.com/mercaldo/ledger/internal/infrastructure/config"
	"github.com/mercaldo/ledger/internal/infrastructure/logger"
	"github.com/mercaldo/ledger/internal/infrastructure/metrics"
	"github.com/mercaldo/ledger/internal/infrastructure/postgres"
	"github.com/mercaldo/ledger/internal/infrastructure/redis"
	"github.com/mercaldo/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()
	policies := cfg.Policies()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	cashRepo := postgresRepo.NewCashRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	eventRepo := postgresRepo.NewEventRepository(pool)
	invoiceRepo := postgresRepo.NewInvoiceRepository(pool)
	debtRepo := postgresRepo.NewDebtRepository(pool)
	investmentRepo := postgresRepo.NewInvestmentRepository(pool)
	auditRepo := postgresRepo.NewCashAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger).WithOnRetry(m.DBRetries.Inc)

	// Initialize use cases
	tradeUC := usecase.NewTradeUseCase(txManager, cashRepo, assetRepo, eventRepo, invoiceRepo, idGen, policies)
	cashUC := usecase.NewCashUseCase(txManager, cashRepo, assetRepo, eventRepo, idGen, policies)
	investmentUC := usecase.NewInvestmentUseCase(txManager, cashRepo, assetRepo, eventRepo, investmentRepo, idGen)
	debtUC := usecase.NewDebtUseCase(txManager, cashRepo, assetRepo, eventRepo, debtRepo, idGen)
	paymentUC := usecase.NewPaymentUseCase(txManager, cashRepo, assetRepo, eventRepo, invoiceRepo, idGen)
	reversalUC := usecase.NewReversalUseCase(txManager, cashRepo, assetRepo, eventRepo, invoiceRepo, debtRepo, investmentRepo, policies)
	reconciliationUC := usecase.NewReconciliationUseCase(assetRepo, cashRepo)
	auditUC := usecase.NewCashAuditUseCase(cashRepo, auditRepo, idGen)

	engine := usecase.NewEngine(
		tradeUC, cashUC, investmentUC, debtUC, paymentUC, reversalUC,
		cashRepo, assetRepo, eventRepo,
		retrier, m,
	)

	// Initialize handlers
	eventHandler := handler.NewEventHandler(engine)
	ledgerHandler := handler.NewLedgerHandler(engine, reconciliationUC)
	invoiceHandler := handler.NewInvoiceHandler(engine, paymentUC)
	debtHandler := handler.NewDebtHandler(engine, debtUC)
	investmentHandler := handler.NewInvestmentHandler(engine, investmentUC)
	auditHandler := handler.NewAuditHandler(auditUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EventHandler:      eventHandler,
		LedgerHandler:     ledgerHandler,
		InvoiceHandler:    invoiceHandler,
		DebtHandler:       debtHandler,
		InvestmentHandler: investmentHandler,
		AuditHandler:      auditHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Metrics:           m,
		Logger:            log.Logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
