package ledger

import (
	"context"
	"errors"
	"testing"

	"expenses/internal/core"
	"expenses/internal/tables/memory"
)

func newTestEngine() (*Engine, *memory.Store) {
	store := memory.New()
	return NewEngine(NewResolver(store)), store
}

func ledgerRows(t *testing.T, store *memory.Store, title string) [][]string {
	t.Helper()
	tbl, found, err := store.Lookup(context.Background(), title)
	if err != nil || !found {
		t.Fatalf("ledger %q not found: %v", title, err)
	}
	rows, err := tbl.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	return rows
}

func TestUpsertIntoEmptyLedger(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()

	action, err := engine.Upsert(ctx, core.Entry{
		Date:     core.NewDate(2025, 9, 5),
		Category: " Food ",
		Amount:   250,
		Note:     " dinner ",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if action != core.ActionAdded {
		t.Fatalf("action = %q, want Added", action)
	}

	rows := ledgerRows(t, store, "September 2025")
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	want := []string{"2025-09-05", "Food", "250", "dinner"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("row cell %d = %q, want %q", i, rows[1][i], want[i])
		}
	}
}

func TestUpsertDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()
	entry := core.Entry{Date: core.NewDate(2025, 9, 5), Category: "Food", Amount: 250, Note: "dinner"}

	if _, err := engine.Upsert(ctx, entry); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := engine.Upsert(ctx, entry); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("second upsert: expected ErrDuplicate, got %v", err)
	}

	if rows := ledgerRows(t, store, "September 2025"); len(rows) != 2 {
		t.Fatalf("duplicate must not change row count, got %d rows", len(rows))
	}
}

func TestUpsertDuplicateCategoryCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine()

	first := core.Entry{Date: core.NewDate(2025, 9, 5), Category: "Food", Amount: 250, Note: "dinner"}
	if _, err := engine.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := first
	second.Category = "fOOd"
	if _, err := engine.Upsert(ctx, second); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected case-insensitive duplicate, got %v", err)
	}
}

func TestUpsertUpdateOverInsert(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()
	d := core.NewDate(2025, 9, 5)

	action, err := engine.Upsert(ctx, core.Entry{Date: d, Category: "Food", Amount: 10, Note: "a"})
	if err != nil || action != core.ActionAdded {
		t.Fatalf("first upsert: action=%q err=%v", action, err)
	}
	action, err = engine.Upsert(ctx, core.Entry{Date: d, Category: "Food", Amount: 20, Note: "b"})
	if err != nil || action != core.ActionUpdated {
		t.Fatalf("second upsert: action=%q err=%v", action, err)
	}

	rows := ledgerRows(t, store, "September 2025")
	if len(rows) != 2 {
		t.Fatalf("update must not add rows, got %d", len(rows))
	}
	if rows[1][2] != "20" || rows[1][3] != "b" {
		t.Fatalf("row not updated in place: %v", rows[1])
	}
	if rows[1][0] != "2025-09-05" || rows[1][1] != "Food" {
		t.Fatalf("date/category must stay untouched: %v", rows[1])
	}
}

func TestUpsertKeepsChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()

	days := []int{10, 5, 20}
	for _, day := range days {
		if _, err := engine.Upsert(ctx, core.Entry{
			Date:     core.NewDate(2025, 9, day),
			Category: "Food",
			Amount:   float64(day),
		}); err != nil {
			t.Fatalf("upsert day %d: %v", day, err)
		}
	}

	rows := ledgerRows(t, store, "September 2025")
	want := []string{"2025-09-05", "2025-09-10", "2025-09-20"}
	if len(rows) != len(want)+1 {
		t.Fatalf("expected header + %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i+1][0] != w {
			t.Fatalf("row %d date = %q, want %q", i+1, rows[i+1][0], w)
		}
	}
}

func TestUpsertFutureDateRejectedBeforeStorage(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()

	future := core.Date{Time: core.Today().AddDate(0, 0, 1)}
	_, err := engine.Upsert(ctx, core.Entry{Date: future, Category: "Food", Amount: 1})
	if !errors.Is(err, core.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	if titles := store.Titles(); len(titles) != 0 {
		t.Fatalf("future date must not touch storage, created %v", titles)
	}
}

func TestUpsertTodayAccepted(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine()

	action, err := engine.Upsert(ctx, core.Entry{Date: core.Today(), Category: "Food", Amount: 1})
	if err != nil || action != core.ActionAdded {
		t.Fatalf("today should be accepted: action=%q err=%v", action, err)
	}
}

func TestUpsertNegativeAmountRejected(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine()

	_, err := engine.Upsert(ctx, core.Entry{Date: core.NewDate(2025, 9, 5), Category: "Food", Amount: -5})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpsertSkipsUnparseableDatesForOrdering(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine()

	// Seed a ledger with a garbage date row between valid ones.
	tbl, err := store.Create(ctx, "September 2025", 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = tbl.Append(ctx, core.Header)
	_ = tbl.Append(ctx, []string{"2025-09-01", "Food", "10", ""})
	_ = tbl.Append(ctx, []string{"not-a-date", "Junk", "5", ""})
	_ = tbl.Append(ctx, []string{"2025-09-20", "Food", "30", ""})

	action, err := engine.Upsert(ctx, core.Entry{Date: core.NewDate(2025, 9, 10), Category: "Travel", Amount: 7})
	if err != nil || action != core.ActionAdded {
		t.Fatalf("upsert: action=%q err=%v", action, err)
	}

	rows := ledgerRows(t, store, "September 2025")
	// Inserted immediately before the first strictly-later dated row.
	if rows[3][0] != "2025-09-10" || rows[4][0] != "2025-09-20" {
		t.Fatalf("unexpected order: %v", rows)
	}
}
