package worker

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/amqp"
	"budgetapp/internal/cache"
	"budgetapp/internal/core"
	"budgetapp/internal/ledger/memory"
	sheetsmem "budgetapp/internal/sheets/memory"
	"budgetapp/internal/summary"
)

type fakeNotifier struct {
	reports []core.AlertReport
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, _ int64, r core.AlertReport) error {
	f.reports = append(f.reports, r)
	return f.err
}

type failingExporter struct{}

func (failingExporter) Export(context.Context, int64, core.MonthlySummary) (string, error) {
	return "", errors.New("quota exceeded")
}

type brokenSummarizer struct{}

func (brokenSummarizer) MonthlySummary(context.Context, int64, string) (core.MonthlySummary, error) {
	return core.MonthlySummary{}, errors.New("ledger down")
}

func (brokenSummarizer) Alerts(context.Context, int64, string) (core.AlertReport, error) {
	return core.AlertReport{}, errors.New("ledger down")
}

// seed gives user 1 a food budget of 100 and 90 spent in February 2026.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	food, err := store.CreateCategory(ctx, core.Category{UserID: 1, Name: "Food", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := store.CreateBudget(ctx, core.Budget{UserID: 1, CategoryID: food.ID, Month: "2026-02", LimitAmount: 100}); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if _, err := store.CreateTransaction(ctx, core.Transaction{UserID: 1, CategoryID: food.ID, Amount: 90, Date: core.NewDate(2026, 2, 10)}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return store
}

func TestHandleTransactionChangedWarmsCacheExportsAndNotifies(t *testing.T) {
	lru := cache.NewLRUStore(10)
	engine := summary.NewEngine(seed(t), lru)
	exporter := sheetsmem.New()
	notifier := &fakeNotifier{}
	w := NewSummaryWorker(engine, exporter, notifier)

	msg := amqp.NewTransactionChangedMessage(1, "2026-02", amqp.OperationCreate)
	if err := w.HandleTransactionChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := lru.Get(context.Background(), summary.Key(1, "2026-02")); !ok {
		t.Fatalf("expected the summary to be cached")
	}
	s, ok := exporter.Latest(1, "2026-02")
	if !ok || s.TotalSpent != 90 || len(s.Categories) != 1 || s.Categories[0].Status != core.StatusNearLimit {
		t.Fatalf("unexpected export %+v ok=%v", s, ok)
	}
	// near_limit on Food, and spending exceeds zero income.
	if len(notifier.reports) != 1 || notifier.reports[0].AlertCount != 2 {
		t.Fatalf("expected one report with two alerts, got %+v", notifier.reports)
	}
}

func TestHandleTransactionChangedWithoutAlertsSkipsNotify(t *testing.T) {
	notifier := &fakeNotifier{}
	w := NewSummaryWorker(summary.NewEngine(memory.New(), nil), nil, notifier)

	if err := w.HandleTransactionChanged(context.Background(), amqp.NewTransactionChangedMessage(5, "2026-02", amqp.OperationDelete)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(notifier.reports) != 0 {
		t.Fatalf("expected no notification, got %+v", notifier.reports)
	}
}

func TestHandleTransactionChangedDropsInvalidMonth(t *testing.T) {
	exporter := sheetsmem.New()
	w := NewSummaryWorker(summary.NewEngine(seed(t), nil), exporter, &fakeNotifier{})

	if err := w.HandleTransactionChanged(context.Background(), amqp.NewTransactionChangedMessage(1, "February", amqp.OperationCreate)); err != nil {
		t.Fatalf("invalid month should be acked, got %v", err)
	}
	if len(exporter.Exports()) != 0 {
		t.Fatalf("nothing should be exported for an invalid month")
	}
}

func TestHandleTransactionChangedRequeuesOnFailure(t *testing.T) {
	msg := amqp.NewTransactionChangedMessage(1, "2026-02", amqp.OperationUpdate)

	notifier := &fakeNotifier{}
	w := NewSummaryWorker(summary.NewEngine(seed(t), nil), failingExporter{}, notifier)
	if err := w.HandleTransactionChanged(context.Background(), msg); err == nil {
		t.Fatal("expected export failure to be returned")
	}
	if len(notifier.reports) != 0 {
		t.Fatalf("alerts must not be sent when the export failed")
	}

	w = NewSummaryWorker(brokenSummarizer{}, nil, nil)
	if err := w.HandleTransactionChanged(context.Background(), msg); err == nil {
		t.Fatal("expected ledger failure to be returned")
	}
}

func TestHandleTransactionChangedNotifyFailureIsAcked(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	w := NewSummaryWorker(summary.NewEngine(seed(t), nil), nil, notifier)

	if err := w.HandleTransactionChanged(context.Background(), amqp.NewTransactionChangedMessage(1, "2026-02", amqp.OperationCreate)); err != nil {
		t.Fatalf("notify failures should not requeue, got %v", err)
	}
	if len(notifier.reports) != 1 {
		t.Fatalf("expected one notify attempt")
	}
}
