package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/amqp"
	"budgetapp/internal/auth"
	"budgetapp/internal/cli"
	"budgetapp/internal/config"
	apphttp "budgetapp/internal/http"
	applog "budgetapp/internal/log"
	"budgetapp/internal/services"
	"budgetapp/internal/summary"
)

func main() {
	cfg := cli.LoadConfig((*config.Config).ValidateAPI)
	logger := cli.SetupLogger(cfg, applog.ComponentApp)
	if applog.ParseLevel(cfg.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	backendRes := cli.InitBackend(context.Background(), logger.Logger, cfg)

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		logger.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}

	engine := summary.NewEngine(backendRes.Ledger, backendRes.Cache,
		summary.WithTTL(cfg.SummaryCacheTTL),
		summary.WithLogger(logger.WithComponent(applog.ComponentSummary).Slog()))

	// Change events are optional: without a broker the API only invalidates.
	var publisher services.ChangePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, change events disabled", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Ledger:             services.NewLedgerService(backendRes.Ledger, engine, publisher, logger),
		Summaries:          engine,
		Verifier:           verifier,
		Ready:              backendRes.Ledger,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		if err := backendRes.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting budgetapp server", "port", cfg.Port, "backend", cfg.DataBackend, "cache", cfg.CacheBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
