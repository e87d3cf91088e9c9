// Package notify delivers budget alert reports to the user.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetapp/internal/core"
)

// Notifier sends an alert report. Reports without alerts are not sent.
type Notifier interface {
	Notify(ctx context.Context, userID int64, report core.AlertReport) error
}

// LogNotifier writes alerts to the log. It is used when no chat is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, userID int64, report core.AlertReport) error {
	for _, a := range report.Alerts {
		n.logger.WarnContext(ctx, "Budget alert",
			"user_id", userID,
			"month", report.Month,
			"category", a.Category,
			"severity", string(a.Severity),
			"message", a.Message)
	}
	return nil
}

// FormatReport renders a report as a plain text message, high severity first.
func FormatReport(userID int64, report core.AlertReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Budget alerts for %s (user %d): %d\n", report.Month, userID, report.AlertCount)
	for _, sev := range []core.Severity{core.SeverityHigh, core.SeverityWarning} {
		for _, a := range report.Alerts {
			if a.Severity != sev {
				continue
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(string(a.Severity)), a.Category, a.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
