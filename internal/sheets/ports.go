package sheets

import (
	"context"

	"budgetapp/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryExporter writes a computed month to an external sheet.
	SummaryExporter interface {
		// Export appends the summary for userID and returns a reference to the written rows.
		Export(ctx context.Context, userID int64, s core.MonthlySummary) (rowRef string, err error)
	}
)
