package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
	applog "budgetapp/internal/log"
)

// Invalidator drops a user's cached summaries.
type Invalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

// ChangePublisher announces a committed transaction write for one month.
type ChangePublisher interface {
	PublishTransactionChanged(ctx context.Context, userID int64, month, operation string) error
}

// Stores groups the ledger ports the service writes through.
type Stores interface {
	ledger.CategoryStore
	ledger.TransactionStore
	ledger.BudgetStore
}

// LedgerService orchestrates category, transaction and budget writes. Every
// committed transaction write invalidates the user's cached summaries before
// returning, then publishes a best-effort change event per affected month.
type LedgerService struct {
	store       Stores
	invalidator Invalidator
	publisher   ChangePublisher
	events      *applog.StructuredLogger
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(store Stores, invalidator Invalidator, publisher ChangePublisher, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &LedgerService{
		store:       store,
		invalidator: invalidator,
		publisher:   publisher,
		events:      applog.NewStructuredLogger(logger.WithComponent(applog.ComponentLedger)),
	}
}

// Categories

func (s *LedgerService) CreateCategory(ctx context.Context, userID int64, name string, typ core.CategoryType) (core.Category, error) {
	c := core.Category{UserID: userID, Name: strings.TrimSpace(name), Type: typ}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.store.CreateCategory(ctx, c)
}

func (s *LedgerService) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

func (s *LedgerService) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

func (s *LedgerService) UpdateCategory(ctx context.Context, userID, id int64, name string, typ core.CategoryType) (core.Category, error) {
	if _, err := s.store.GetCategory(ctx, userID, id); err != nil {
		return core.Category{}, err
	}
	c := core.Category{ID: id, UserID: userID, Name: strings.TrimSpace(name), Type: typ}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.store.UpdateCategory(ctx, c)
}

// DeleteCategory removes the category with its transactions and budgets.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, userID)
	return nil
}

// Transactions

func (s *LedgerService) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	t.UserID = userID
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.store.GetCategory(ctx, userID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.changed(ctx, applog.OpCreate, created, created.Date.CalendarMonth())
	return created, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// ListTransactions filters by category and by a YYYY-MM month token when given.
func (s *LedgerService) ListTransactions(ctx context.Context, userID int64, categoryID *int64, month string) ([]core.Transaction, error) {
	filter := ledger.TransactionFilter{CategoryID: categoryID}
	if month != "" {
		m, err := core.ParseMonth(month)
		if err != nil {
			return nil, err
		}
		filter.Month = &m
	}
	return s.store.ListTransactions(ctx, userID, filter)
}

// UpdateTransaction applies a partial update.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if patch.CategoryID != nil {
		if _, err := s.store.GetCategory(ctx, userID, *patch.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}

	updated := existing
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.UpdateTransaction(ctx, updated)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.changed(ctx, applog.OpUpdate, saved, existing.Date.CalendarMonth(), saved.Date.CalendarMonth())
	return saved, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	existing, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.changed(ctx, applog.OpDelete, existing, existing.Date.CalendarMonth())
	return nil
}

// changed runs after a committed transaction write.
func (s *LedgerService) changed(ctx context.Context, op string, t core.Transaction, months ...core.Month) {
	s.invalidator.Invalidate(ctx, t.UserID)

	seen := make(map[core.Month]bool, len(months))
	for _, m := range months {
		if seen[m] {
			continue
		}
		seen[m] = true
		s.events.LogTransactionChanged(ctx, op, t.UserID, applog.TransactionRef{
			ID: t.ID, CategoryID: t.CategoryID, Amount: t.Amount, Month: m.String(),
		})
		s.publish(ctx, t.UserID, m.String(), op)
	}
}

func (s *LedgerService) publish(ctx context.Context, userID int64, month, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionChanged(ctx, userID, month, op); err != nil {
		// The write is committed; the worker will catch up on the next change.
		slog.WarnContext(ctx, "Failed to publish transaction change",
			applog.FieldUserID, userID, applog.FieldMonth, month, applog.FieldOperation, op, applog.FieldError, err)
	}
}

// Budgets

func (s *LedgerService) CreateBudget(ctx context.Context, userID int64, b core.Budget) (core.Budget, error) {
	b.UserID = userID
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := s.store.GetCategory(ctx, userID, b.CategoryID); err != nil {
		return core.Budget{}, err
	}
	return s.store.CreateBudget(ctx, b)
}

func (s *LedgerService) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	return s.store.GetBudget(ctx, userID, id)
}

// ListBudgets filters by the stored month string when month is non-empty.
func (s *LedgerService) ListBudgets(ctx context.Context, userID int64, month string) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, userID, month)
}

// UpdateBudget replaces month, limit and category of an existing budget.
func (s *LedgerService) UpdateBudget(ctx context.Context, userID, id int64, b core.Budget) (core.Budget, error) {
	if _, err := s.store.GetBudget(ctx, userID, id); err != nil {
		return core.Budget{}, err
	}
	b.ID = id
	b.UserID = userID
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := s.store.GetCategory(ctx, userID, b.CategoryID); err != nil {
		return core.Budget{}, err
	}
	return s.store.UpdateBudget(ctx, b)
}

func (s *LedgerService) DeleteBudget(ctx context.Context, userID, id int64) error {
	return s.store.DeleteBudget(ctx, userID, id)
}
