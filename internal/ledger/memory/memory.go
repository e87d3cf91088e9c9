// Package memory is an in-process ledger used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	nextID       int64
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	budgets      map[int64]core.Budget
}

var _ ledger.Ledger = (*Store)(nil)

func New() *Store {
	return &Store{
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Categories

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, userID, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category(userID, id)
}

func (s *Store) category(userID, id int64) (core.Category, error) {
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return core.Category{}, core.NotFound("category", id)
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, userID int64) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.category(c.UserID, c.ID); err != nil {
		return core.Category{}, err
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.category(userID, id); err != nil {
		return err
	}
	delete(s.categories, id)
	for tid, t := range s.transactions {
		if t.CategoryID == id {
			delete(s.transactions, tid)
		}
	}
	for bid, b := range s.budgets {
		if b.CategoryID == id {
			delete(s.budgets, bid)
		}
	}
	return nil
}

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transaction(userID, id)
}

func (s *Store) transaction(userID, id int64) (core.Transaction, error) {
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, core.NotFound("transaction", id)
	}
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, userID int64, filter ledger.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID && filter.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.transaction(t.UserID, t.ID); err != nil {
		return core.Transaction{}, err
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.transaction(userID, id); err != nil {
		return err
	}
	delete(s.transactions, id)
	return nil
}

// Budgets

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.duplicateBudget(b) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	b.ID = s.id()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) duplicateBudget(b core.Budget) bool {
	for _, other := range s.budgets {
		if other.ID != b.ID && other.UserID == b.UserID && other.CategoryID == b.CategoryID && other.Month == b.Month {
			return true
		}
	}
	return false
}

func (s *Store) GetBudget(_ context.Context, userID, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget(userID, id)
}

func (s *Store) budget(userID, id int64) (core.Budget, error) {
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, core.NotFound("budget", id)
	}
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64, month string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID && (month == "" || b.Month == month) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.budget(b.UserID, b.ID); err != nil {
		return core.Budget{}, err
	}
	if s.duplicateBudget(b) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.budget(userID, id); err != nil {
		return err
	}
	delete(s.budgets, id)
	return nil
}

// Summary queries

// byID returns transactions in insertion order so float sums are reproducible.
func (s *Store) byID() []core.Transaction {
	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ExpenseBreakdown(_ context.Context, userID int64, month core.Month, rawMonth string) ([]core.CategorySpend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spent := make(map[int64]float64)
	for _, t := range s.byID() {
		if t.UserID == userID && month.Contains(t.Date) {
			spent[t.CategoryID] += t.Amount
		}
	}
	limits := make(map[int64]float64)
	for _, b := range s.budgets {
		if b.UserID == userID && b.Month == rawMonth {
			limits[b.CategoryID] = b.LimitAmount
		}
	}

	out := make([]core.CategorySpend, 0)
	for _, c := range s.categories {
		if c.UserID != userID || c.Type != core.Expense {
			continue
		}
		row := core.CategorySpend{CategoryID: c.ID, Name: c.Name, Spent: spent[c.ID]}
		if limit, ok := limits[c.ID]; ok {
			row.Limit = &limit
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (s *Store) IncomeTotal(_ context.Context, userID int64, month core.Month) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, t := range s.byID() {
		if t.UserID != userID || !month.Contains(t.Date) {
			continue
		}
		if c, ok := s.categories[t.CategoryID]; ok && c.Type == core.Income {
			total += t.Amount
		}
	}
	return total, nil
}
