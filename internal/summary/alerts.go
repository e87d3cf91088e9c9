package summary

import (
	"fmt"
	"math"

	"budgetapp/internal/core"
)

// AlertsFor lists the alerts of a summary: one per over_budget or near_limit
// category in category order, then an Overall alert when net is negative.
// The result is never nil.
func AlertsFor(s core.MonthlySummary) []core.Alert {
	alerts := make([]core.Alert, 0)
	for _, c := range s.Categories {
		switch c.Status {
		case core.StatusOverBudget:
			over := 0.0
			if c.Remaining != nil {
				over = math.Abs(*c.Remaining)
			}
			alerts = append(alerts, core.Alert{
				Category: c.Name,
				Severity: core.SeverityHigh,
				Message:  fmt.Sprintf("Over budget by $%s", core.FormatAmount(over)),
				Spent:    c.Spent,
				Limit:    c.Limit,
			})
		case core.StatusNearLimit:
			var pct, left float64
			if c.Percentage != nil {
				pct = *c.Percentage
			}
			if c.Remaining != nil {
				left = *c.Remaining
			}
			alerts = append(alerts, core.Alert{
				Category: c.Name,
				Severity: core.SeverityWarning,
				Message:  fmt.Sprintf("At %s%% of budget — $%s remaining", core.FormatPercentage(pct), core.FormatAmount(left)),
				Spent:    c.Spent,
				Limit:    c.Limit,
			})
		}
	}

	if s.Net < 0 {
		income := s.TotalIncome
		alerts = append(alerts, core.Alert{
			Category: core.OverallCategory,
			Severity: core.SeverityHigh,
			Message:  fmt.Sprintf("Spending exceeds income by $%s", core.FormatAmount(math.Abs(s.Net))),
			Spent:    s.TotalSpent,
			Limit:    &income,
		})
	}
	return alerts
}
