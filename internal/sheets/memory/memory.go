package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetapp/internal/core"
	ports "budgetapp/internal/sheets"
)

var _ ports.SummaryExporter = (*Exporter)(nil)

// Export is one recorded call to Exporter.Export.
type Export struct {
	UserID  int64
	Summary core.MonthlySummary
}

// Exporter keeps exported summaries in memory, keyed by arrival order.
type Exporter struct {
	mu    sync.Mutex
	items []Export
}

func New() *Exporter {
	return &Exporter{}
}

// Export stores the summary and returns a synthetic row reference.
func (e *Exporter) Export(_ context.Context, userID int64, s core.MonthlySummary) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, Export{UserID: userID, Summary: s})
	return fmt.Sprintf("mem:%d", len(e.items)), nil
}

// Exports returns a copy of everything exported so far.
func (e *Exporter) Exports() []Export {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Export(nil), e.items...)
}

// Latest returns the most recent export for the user's month.
func (e *Exporter) Latest(userID int64, month string) (core.MonthlySummary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.items) - 1; i >= 0; i-- {
		it := e.items[i]
		if it.UserID == userID && it.Summary.Month == month {
			return it.Summary, true
		}
	}
	return core.MonthlySummary{}, false
}
