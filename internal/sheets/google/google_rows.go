package google

import (
	"time"

	"budgetapp/internal/core"
)

// Column order: Exported, User, Month, Category, Spent, Limit, Remaining, Percentage, Status.
func summaryRows(userID int64, s core.MonthlySummary, at time.Time) [][]any {
	stamp := at.UTC().Format(time.RFC3339)
	rows := make([][]any, 0, len(s.Categories)+2)
	for _, c := range s.Categories {
		rows = append(rows, []any{
			stamp, userID, s.Month, c.Name,
			c.Spent, optional(c.Limit), optional(c.Remaining), optional(c.Percentage),
			string(c.Status),
		})
	}
	rows = append(rows,
		[]any{stamp, userID, s.Month, "Income", s.TotalIncome, "", "", "", ""},
		[]any{stamp, userID, s.Month, "Net", s.TotalSpent, s.TotalBudgetLimit, s.Net, "", ""},
	)
	return rows
}

// optional renders nil as an empty cell.
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
