package memory

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
)

func TestCategoryOwnership(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, err := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Food", Type: core.Expense})
	if err != nil || c.ID == 0 {
		t.Fatalf("create: %+v err=%v", c, err)
	}
	if _, err := s.GetCategory(ctx, 2, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := s.DeleteCategory(ctx, 2, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting other user's category, got %v", err)
	}
	list, _ := s.ListCategories(ctx, 2)
	if len(list) != 0 {
		t.Fatalf("expected no categories for user 2, got %v", list)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	c, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Food", Type: core.Expense})
	tx, _ := s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: c.ID, Amount: 5, Date: core.NewDate(2026, 2, 1)})
	b, _ := s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: c.ID, Month: "2026-02", LimitAmount: 10})

	if err := s.DeleteCategory(ctx, 1, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, 1, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected transaction removed, got %v", err)
	}
	if _, err := s.GetBudget(ctx, 1, b.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected budget removed, got %v", err)
	}
}

func TestListTransactionsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	food, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Food", Type: core.Expense})
	rent, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Rent", Type: core.Expense})

	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: food.ID, Amount: 1, Date: core.NewDate(2026, 2, 1)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: food.ID, Amount: 2, Date: core.NewDate(2026, 2, 20)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: rent.ID, Amount: 3, Date: core.NewDate(2026, 3, 1)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 2, CategoryID: food.ID, Amount: 4, Date: core.NewDate(2026, 2, 2)})

	all, _ := s.ListTransactions(ctx, 1, ledger.TransactionFilter{})
	if len(all) != 3 || all[0].Amount != 3 || all[2].Amount != 1 {
		t.Fatalf("expected newest first for user 1, got %+v", all)
	}

	feb := core.Month{Year: 2026, Number: 2}
	got, _ := s.ListTransactions(ctx, 1, ledger.TransactionFilter{CategoryID: &food.ID, Month: &feb})
	if len(got) != 2 || got[0].Amount != 2 {
		t.Fatalf("unexpected filtered list %+v", got)
	}
}

func TestBudgetDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()
	b, err := s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: 1, Month: "2026-02", LimitAmount: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: 1, Month: "2026-02", LimitAmount: 50}); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}
	// Same pair for another user is fine.
	if _, err := s.CreateBudget(ctx, core.Budget{UserID: 2, CategoryID: 1, Month: "2026-02", LimitAmount: 50}); err != nil {
		t.Fatalf("unexpected error for another user: %v", err)
	}
	other, _ := s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: 1, Month: "2026-03", LimitAmount: 50})
	other.Month = "2026-02"
	if _, err := s.UpdateBudget(ctx, other); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget on update, got %v", err)
	}
	b.LimitAmount = 120
	if _, err := s.UpdateBudget(ctx, b); err != nil {
		t.Fatalf("updating in place should succeed: %v", err)
	}
	list, _ := s.ListBudgets(ctx, 1, "2026-02")
	if len(list) != 1 || list[0].LimitAmount != 120 {
		t.Fatalf("unexpected budgets %+v", list)
	}
}

func TestSummaryQueries(t *testing.T) {
	ctx := context.Background()
	s := New()
	salary, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Salary", Type: core.Income})
	food, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Food", Type: core.Expense})
	fun, _ := s.CreateCategory(ctx, core.Category{UserID: 1, Name: "Fun", Type: core.Expense})
	s.CreateCategory(ctx, core.Category{UserID: 2, Name: "Other", Type: core.Expense})

	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: salary.ID, Amount: 3000, Date: core.NewDate(2026, 2, 1)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: salary.ID, Amount: 999, Date: core.NewDate(2026, 1, 31)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: food.ID, Amount: 25.5, Date: core.NewDate(2026, 2, 3)})
	s.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: food.ID, Amount: 10, Date: core.NewDate(2026, 2, 28)})
	s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: food.ID, Month: "2026-02", LimitAmount: 500})
	s.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: fun.ID, Month: "2026-2", LimitAmount: 50})

	feb := core.Month{Year: 2026, Number: 2}
	rows, err := s.ExpenseBreakdown(ctx, 1, feb, "2026-02")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Food" || rows[1].Name != "Fun" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].Spent != 35.5 || rows[0].Limit == nil || *rows[0].Limit != 500 {
		t.Fatalf("unexpected food row %+v", rows[0])
	}
	// The budget is stored under the unpadded token and is found only by that exact string.
	if rows[1].Spent != 0 || rows[1].Limit != nil {
		t.Fatalf("unexpected fun row %+v", rows[1])
	}

	income, _ := s.IncomeTotal(ctx, 1, feb)
	if income != 3000 {
		t.Fatalf("expected income 3000, got %v", income)
	}
}
