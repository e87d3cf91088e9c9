package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"budgetapp/internal/amqp"
	"budgetapp/internal/core"
	"budgetapp/internal/notify"
	"budgetapp/internal/sheets"
)

// Summarizer computes a user's month. *summary.Engine satisfies it.
type Summarizer interface {
	MonthlySummary(ctx context.Context, userID int64, month string) (core.MonthlySummary, error)
	Alerts(ctx context.Context, userID int64, month string) (core.AlertReport, error)
}

// SummaryWorker refreshes a month after its transactions changed: it
// recomputes the summary (warming the cache), exports it and reports alerts.
type SummaryWorker struct {
	engine   Summarizer
	exporter sheets.SummaryExporter
	notifier notify.Notifier
}

// NewSummaryWorker builds a worker. exporter and notifier may be nil.
func NewSummaryWorker(engine Summarizer, exporter sheets.SummaryExporter, notifier notify.Notifier) *SummaryWorker {
	return &SummaryWorker{
		engine:   engine,
		exporter: exporter,
		notifier: notifier,
	}
}

// HandleTransactionChanged processes a single transaction changed message from AMQP.
// A returned error requeues the message; messages naming an invalid month are dropped.
func (w *SummaryWorker) HandleTransactionChanged(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	slog.InfoContext(ctx, "Processing transaction changed message",
		"user_id", msg.UserID,
		"month", msg.Month,
		"operation", msg.Operation)

	s, err := w.engine.MonthlySummary(ctx, msg.UserID, msg.Month)
	if errors.Is(err, core.ErrInvalidMonthFormat) {
		slog.WarnContext(ctx, "Dropping message with invalid month",
			"user_id", msg.UserID,
			"month", msg.Month)
		return nil
	}
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	var report core.AlertReport
	g, gctx := errgroup.WithContext(ctx)
	if w.exporter != nil {
		g.Go(func() error {
			ref, err := w.exporter.Export(gctx, msg.UserID, s)
			if err != nil {
				return fmt.Errorf("export summary: %w", err)
			}
			slog.InfoContext(gctx, "Exported summary",
				"user_id", msg.UserID,
				"month", msg.Month,
				"ref", ref)
			return nil
		})
	}
	g.Go(func() error {
		r, err := w.engine.Alerts(gctx, msg.UserID, msg.Month)
		if err != nil {
			return fmt.Errorf("compute alerts: %w", err)
		}
		report = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if report.AlertCount == 0 || w.notifier == nil {
		return nil
	}
	// Delivery failures are not retried: a requeue would export the month again.
	if err := w.notifier.Notify(ctx, msg.UserID, report); err != nil {
		slog.ErrorContext(ctx, "Failed to notify alerts",
			"user_id", msg.UserID,
			"month", msg.Month,
			"alert_count", report.AlertCount,
			"error", err)
		return nil
	}
	slog.InfoContext(ctx, "Notified alerts",
		"user_id", msg.UserID,
		"month", msg.Month,
		"alert_count", report.AlertCount)
	return nil
}
