package ledger

import (
	"context"
	"errors"
	"testing"

	"expenses/internal/core"
	"expenses/internal/tables/memory"
)

func seedSeptember(t *testing.T, store *memory.Store, rows [][]string) {
	t.Helper()
	ctx := context.Background()
	tbl, err := store.Create(ctx, "September 2025", 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tbl.Append(ctx, core.Header); err != nil {
		t.Fatalf("append header: %v", err)
	}
	for _, row := range rows {
		if err := tbl.Append(ctx, row); err != nil {
			t.Fatalf("append row: %v", err)
		}
	}
}

func TestByCategory(t *testing.T) {
	store := memory.New()
	seedSeptember(t, store, [][]string{
		{"2025-09-01", "Food", "100", ""},
		{"2025-09-01", "Travel", "50", ""},
		{"2025-09-02", "Food", "25", ""},
	})

	agg := NewAggregator(NewResolver(store))
	got, err := agg.ByCategory(context.Background(), "2025-09")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	want := map[string]float64{"Food": 125, "Travel": 50}
	if len(got) != len(want) {
		t.Fatalf("summary = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("summary[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestByDay(t *testing.T) {
	store := memory.New()
	seedSeptember(t, store, [][]string{
		{"2025-09-01", "Food", "100", ""},
		{"2025-09-01", "Travel", "50", ""},
		{"2025-09-02", "Food", "25", ""},
	})

	agg := NewAggregator(NewResolver(store))
	got, err := agg.ByDay(context.Background(), "2025-09")
	if err != nil {
		t.Fatalf("by day: %v", err)
	}
	want := map[string]float64{"01": 150, "02": 25}
	if len(got) != len(want) {
		t.Fatalf("daily = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("daily[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestAggregationsTolerateBadCells(t *testing.T) {
	store := memory.New()
	seedSeptember(t, store, [][]string{
		{"2025-09-01", "Food", "not-a-number", ""},
		{"not-a-date", "Food", "40", ""},
		{"2025-09-02", "Travel", "10", ""},
	})

	agg := NewAggregator(NewResolver(store))

	cats, err := agg.ByCategory(context.Background(), "2025-09")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	// Bad amounts count as zero, bad dates still count toward categories.
	if cats["Food"] != 40 || cats["Travel"] != 10 {
		t.Fatalf("unexpected category summary: %v", cats)
	}

	days, err := agg.ByDay(context.Background(), "2025-09")
	if err != nil {
		t.Fatalf("by day: %v", err)
	}
	// The unparseable-date row is excluded from the daily reduction only.
	if _, ok := days["01"]; !ok {
		t.Fatalf("day 01 missing: %v", days)
	}
	if days["01"] != 0 || days["02"] != 10 || len(days) != 2 {
		t.Fatalf("unexpected daily summary: %v", days)
	}
}

func TestAggregatorInvalidSelector(t *testing.T) {
	agg := NewAggregator(NewResolver(memory.New()))
	if _, err := agg.ByCategory(context.Background(), "2025-13"); !errors.Is(err, core.ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
}
