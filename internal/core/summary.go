package core

const (
	StatusNoBudget    Status = "no_budget_set"
	StatusUnderBudget Status = "under_budget"
	StatusNearLimit   Status = "near_limit"
	StatusOverBudget  Status = "over_budget"

	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// OverallCategory labels the alert raised when spending exceeds income.
const OverallCategory = "Overall"

type (
	Status   string
	Severity string

	// CategorySpend is one expense category's raw figures for a month, as read from the ledger.
	CategorySpend struct {
		CategoryID int64
		Name       string
		Spent      float64
		Limit      *float64 // nil when no budget is set for the month
	}

	// CategorySummary is the spend-vs-budget breakdown of one expense category.
	CategorySummary struct {
		CategoryID int64    `json:"category_id"`
		Name       string   `json:"name"`
		Spent      float64  `json:"spent"`
		Limit      *float64 `json:"limit"`
		Remaining  *float64 `json:"remaining"`
		Percentage *float64 `json:"percentage"`
		Status     Status   `json:"status"`
	}

	// MonthlySummary is the computed overview of a user's month.
	MonthlySummary struct {
		Month            string            `json:"month"`
		TotalIncome      float64           `json:"total_income"`
		TotalSpent       float64           `json:"total_spent"`
		TotalBudgetLimit float64           `json:"total_budget_limit"`
		Net              float64           `json:"net"`
		Categories       []CategorySummary `json:"categories"`
	}

	Alert struct {
		Category string   `json:"category"`
		Severity Severity `json:"severity"`
		Message  string   `json:"message"`
		Spent    float64  `json:"spent"`
		Limit    *float64 `json:"limit"`
	}

	AlertReport struct {
		Month      string  `json:"month"`
		AlertCount int     `json:"alert_count"`
		Alerts     []Alert `json:"alerts"`
	}
)
