package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetapp/internal/amqp"
	"budgetapp/internal/cli"
	"budgetapp/internal/config"
	applog "budgetapp/internal/log"
	"budgetapp/internal/notify"
	"budgetapp/internal/sheets"
	gsheet "budgetapp/internal/sheets/google"
	"budgetapp/internal/summary"
	"budgetapp/internal/worker"
)

func main() {
	cfg := cli.LoadConfig(func(c *config.Config) error {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.AMQPURL == "" {
			return errors.New("AMQP_URL is required for the summary worker")
		}
		return nil
	})
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)
	logger.Info("Starting summary-worker")

	backendRes := cli.InitBackend(context.Background(), logger.Logger, cfg)
	engine := summary.NewEngine(backendRes.Ledger, backendRes.Cache,
		summary.WithTTL(cfg.SummaryCacheTTL),
		summary.WithLogger(logger.WithComponent(applog.ComponentSummary).Slog()))

	// Google Sheets export is optional
	var exporter sheets.SummaryExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			SheetBase:       cfg.GoogleSheetName,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// Alerts go to Telegram when configured, to the log otherwise
	var notifier notify.Notifier = notify.NewLogNotifier(logger.WithComponent(applog.ComponentNotify).Slog())
	if cfg.TelegramEnabled() {
		bot, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		notifier = bot
		logger.Info("Telegram alerts enabled", "chat_id", cfg.TelegramChatID)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	summaryWorker := worker.NewSummaryWorker(engine, exporter, notifier)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", "error", err)
		}
		if err := backendRes.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", "error", err)
		}
	})

	go func() {
		err := amqpClient.ConsumeTransactionChanged(ctx, summaryWorker.HandleTransactionChanged)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Summary worker started", "queue", cfg.AMQPQueue)
	cli.WaitForShutdown(ctx, done)
	logger.Info("Summary worker stopped gracefully")
}
