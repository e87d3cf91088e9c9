// Package summary computes per-month spend-vs-budget summaries and the alerts
// derived from them, caching results per (user, month).
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetapp/internal/cache"
	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
	applog "budgetapp/internal/log"
)

// DefaultTTL is how long a computed summary stays cached.
const DefaultTTL = 300 * time.Second

// nearLimitRatio is the fraction of the limit at which a category is near_limit.
const nearLimitRatio = 0.8

// Engine computes monthly summaries and alerts over a ledger, caching summaries per user and month.
type Engine struct {
	reader ledger.SummaryReader
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTTL sets the cache lifetime of computed summaries. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithLogger sets the engine logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine builds an engine over reader. A nil store disables caching.
func NewEngine(reader ledger.SummaryReader, store cache.Store, opts ...Option) *Engine {
	if store == nil {
		store = cache.Nop{}
	}
	e := &Engine{
		reader: reader,
		cache:  store,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(applog.FieldComponent, applog.ComponentSummary)
	return e
}

// Key is the cache key of a user's summary for the month token as supplied.
func Key(userID int64, month string) string {
	return fmt.Sprintf("summary:%d:%s", userID, month)
}

// UserPattern matches every cached summary of a user.
func UserPattern(userID int64) string {
	return fmt.Sprintf("summary:%d:*", userID)
}

// MonthlySummary returns the user's summary for month, from cache when present.
// month must have the form YYYY-MM; anything else yields core.ErrInvalidMonthFormat.
func (e *Engine) MonthlySummary(ctx context.Context, userID int64, month string) (core.MonthlySummary, error) {
	parsed, err := core.ParseMonth(month)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	key := Key(userID, month)
	if data, ok := e.cache.Get(ctx, key); ok {
		var cached core.MonthlySummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		e.logger.WarnContext(ctx, "Discarding unreadable cached summary", applog.FieldCacheKey, key)
	}

	var (
		rows   []core.CategorySpend
		income float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = e.reader.ExpenseBreakdown(gctx, userID, parsed, month)
		if err != nil {
			return fmt.Errorf("expense breakdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		income, err = e.reader.IncomeTotal(gctx, userID, parsed)
		if err != nil {
			return fmt.Errorf("income total: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.MonthlySummary{}, err
	}

	result := Summarize(month, rows, income)

	if data, err := json.Marshal(result); err == nil {
		e.cache.Set(context.WithoutCancel(ctx), key, data, e.ttl)
	}

	e.logger.DebugContext(ctx, "Summary computed",
		applog.NewFields().WithUserMonth(userID, month).WithOperation(applog.OpSummarize).ToSlice()...)
	return result, nil
}

// Alerts derives the alert report for the user's month from its summary.
func (e *Engine) Alerts(ctx context.Context, userID int64, month string) (core.AlertReport, error) {
	s, err := e.MonthlySummary(ctx, userID, month)
	if err != nil {
		return core.AlertReport{}, err
	}
	alerts := AlertsFor(s)
	return core.AlertReport{Month: month, AlertCount: len(alerts), Alerts: alerts}, nil
}

// Invalidate drops every cached summary of the user.
func (e *Engine) Invalidate(ctx context.Context, userID int64) {
	e.cache.DeletePattern(context.WithoutCancel(ctx), UserPattern(userID))
}

// Summarize builds a summary from ledger rows. Rows keep their order.
func Summarize(month string, rows []core.CategorySpend, income float64) core.MonthlySummary {
	s := core.MonthlySummary{
		Month:       month,
		TotalIncome: income,
		Categories:  make([]core.CategorySummary, 0, len(rows)),
	}
	for _, row := range rows {
		s.Categories = append(s.Categories, summarizeCategory(row))
		s.TotalSpent += row.Spent
		if row.Limit != nil {
			s.TotalBudgetLimit += *row.Limit
		}
	}
	s.Net = core.RoundCents(income - s.TotalSpent)
	return s
}

func summarizeCategory(row core.CategorySpend) core.CategorySummary {
	cs := core.CategorySummary{
		CategoryID: row.CategoryID,
		Name:       row.Name,
		Spent:      row.Spent,
		Limit:      row.Limit,
		Status:     Classify(row.Spent, row.Limit),
	}
	// A zero limit still classifies but has no meaningful remainder or ratio.
	if row.Limit != nil && *row.Limit != 0 {
		limit := *row.Limit
		remaining := core.RoundCents(limit - row.Spent)
		percentage := core.Round(row.Spent/limit*100, 1)
		cs.Remaining = &remaining
		cs.Percentage = &percentage
	}
	return cs
}

// Classify returns the budget status of spent against limit.
func Classify(spent float64, limit *float64) core.Status {
	switch {
	case limit == nil:
		return core.StatusNoBudget
	case spent >= *limit:
		return core.StatusOverBudget
	case spent >= nearLimitRatio*(*limit):
		return core.StatusNearLimit
	default:
		return core.StatusUnderBudget
	}
}
