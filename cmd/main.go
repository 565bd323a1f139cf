package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/trade-service/internal/catalog"
	"github.com/senyabanana/trade-service/internal/db"
	"github.com/senyabanana/trade-service/internal/handlers"
	"github.com/senyabanana/trade-service/internal/repository"
	"github.com/senyabanana/trade-service/internal/router"
	"github.com/senyabanana/trade-service/internal/router/config"
	"github.com/senyabanana/trade-service/internal/services"
	"github.com/senyabanana/trade-service/internal/statemachine"
	"github.com/senyabanana/trade-service/internal/workers"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("cannot load config: ", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	runDBMigration(logger, cfg.MigrationURL, cfg.PostgresConn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		logger.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	reasons, err := catalog.Default()
	if err != nil {
		logger.Fatalf("cannot load reject reasons: %v", err)
	}

	tradeRepo := repository.NewPostgresTradeRepository(dbPool)
	jobRepo := repository.NewPostgresJobRepository(dbPool)
	partnerRepo := repository.NewPostgresPartnerRepository(dbPool)

	tradeService := services.NewTradeService(tradeRepo, jobRepo, reasons)
	partnerService := services.NewPartnerService(partnerRepo)

	tradeHandler := handlers.NewTradeHandler(tradeService, logger, cfg.RequestTimeout)
	partnerHandler := handlers.NewPartnerHandler(partnerService, logger, cfg.RequestTimeout)

	if cfg.ExpirySchedule != "" {
		policy := statemachine.ExpiryPolicy{
			ProposalTTL: cfg.ProposalTTL,
			DeliveryTTL: cfg.DeliveryTTL,
			RatingTTL:   cfg.RatingTTL,
		}
		sweeper := workers.NewExpirySweeper(tradeService, policy, logger, cfg.ExpiryTimeout)
		if err := sweeper.Start(cfg.ExpirySchedule); err != nil {
			logger.Fatal(err)
		}
		defer sweeper.Stop()
	}

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.InitRoutes(tradeHandler, partnerHandler),
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.Infof("server is listening on %s...", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Info("server stopped")
}

func runDBMigration(logger *logrus.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		logger.Fatal("cannot create a new migrate instance: ", err)
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("failed to run migrate up: ", err)
	}
	logger.Info("db migrated successfully")
}
