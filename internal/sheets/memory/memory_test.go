package memory

import (
	"context"
	"testing"

	"budgetapp/internal/core"
)

func TestExporterExportAndLatest(t *testing.T) {
	e := New()
	ctx := context.Background()

	ref, err := e.Export(ctx, 1, core.MonthlySummary{Month: "2026-02", TotalSpent: 10})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
	}
	e.Export(ctx, 2, core.MonthlySummary{Month: "2026-02", TotalSpent: 99})
	e.Export(ctx, 1, core.MonthlySummary{Month: "2026-02", TotalSpent: 20})

	got, ok := e.Latest(1, "2026-02")
	if !ok || got.TotalSpent != 20 {
		t.Fatalf("expected latest export for user 1, got %+v ok=%v", got, ok)
	}
	if _, ok := e.Latest(1, "2026-03"); ok {
		t.Fatalf("expected no export for another month")
	}
	if n := len(e.Exports()); n != 3 {
		t.Fatalf("expected 3 exports, got %d", n)
	}
}
