// Package ledger defines the storage ports for categories, transactions and
// budgets, and the read queries the summary engine depends on.
package ledger

import (
	"context"

	"budgetapp/internal/core"
)

// TransactionFilter narrows a transaction listing. Nil fields do not filter.
type TransactionFilter struct {
	CategoryID *int64
	Month      *core.Month
}

// Matches reports whether t passes the filter.
func (f TransactionFilter) Matches(t core.Transaction) bool {
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if f.Month != nil && !f.Month.Contains(t.Date) {
		return false
	}
	return true
}

// Ports for outbound adapters. Every method is scoped to a user; rows owned by
// another user behave as if they did not exist and yield core.ErrNotFound.
type (
	// SummaryReader provides the aggregates a monthly summary is built from.
	SummaryReader interface {
		// ExpenseBreakdown returns one row per expense category of the user,
		// ordered by category ID, with the month's spend and the budget limit
		// stored under rawMonth (nil when there is none).
		ExpenseBreakdown(ctx context.Context, userID int64, month core.Month, rawMonth string) ([]core.CategorySpend, error)

		// IncomeTotal sums the user's income transactions dated in month.
		IncomeTotal(ctx context.Context, userID int64, month core.Month) (float64, error)
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		GetCategory(ctx context.Context, userID, id int64) (core.Category, error)
		ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
		// DeleteCategory also removes the category's transactions and budgets.
		DeleteCategory(ctx context.Context, userID, id int64) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
		// ListTransactions returns matching transactions, newest date first.
		ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id int64) error
	}

	BudgetStore interface {
		// CreateBudget fails with core.ErrDuplicateBudget when the user already
		// has a budget for the category and month.
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, userID, id int64) (core.Budget, error)
		// ListBudgets returns the user's budgets, restricted to month when it is non-empty.
		ListBudgets(ctx context.Context, userID int64, month string) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, userID, id int64) error
	}

	// Ledger is a complete storage backend.
	Ledger interface {
		SummaryReader
		CategoryStore
		TransactionStore
		BudgetStore
		Ping(ctx context.Context) error
		Close() error
	}
)
