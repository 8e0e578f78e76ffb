package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLookupAndCreate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, found, err := s.Lookup(ctx, "September 2025"); err != nil || found {
		t.Fatalf("expected missing table, found=%v err=%v", found, err)
	}
	if _, err := s.Create(ctx, "September 2025", 1000, 10); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, found, err := s.Lookup(ctx, "September 2025"); err != nil || !found {
		t.Fatalf("expected table after create, found=%v err=%v", found, err)
	}
	// Idempotent create.
	if _, err := s.Create(ctx, "September 2025", 1000, 10); err != nil {
		t.Fatalf("re-create: %v", err)
	}
}

func TestAppendAndInsertAt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tbl, err := s.Create(ctx, "t", 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, v := range []string{"header", "a", "c"} {
		if err := tbl.Append(ctx, []string{v}); err != nil {
			t.Fatalf("append %q: %v", v, err)
		}
	}
	if err := tbl.InsertAt(ctx, 3, []string{"b"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := tbl.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := []string{"header", "a", "b", "c"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i][0] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, rows[i][0], want[i])
		}
	}
}

func TestUpdateCell(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tbl, _ := s.Create(ctx, "t", 0, 0)
	_ = tbl.Append(ctx, []string{"Date", "Category", "Amount", "Note"})
	_ = tbl.Append(ctx, []string{"2025-09-01", "Food", "10", "x"})

	if err := tbl.UpdateCell(ctx, 2, 3, "25"); err != nil {
		t.Fatalf("update: %v", err)
	}
	recs, err := tbl.Records(ctx)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 1 || recs[0]["Amount"] != "25" {
		t.Fatalf("unexpected records: %v", recs)
	}

	if err := tbl.UpdateCell(ctx, 9, 1, "x"); err == nil {
		t.Fatalf("expected error for missing row")
	}
	if err := tbl.UpdateCell(ctx, 2, 5, "x"); err == nil {
		t.Fatalf("expected error for column out of range")
	}
}

func TestTablesAreIsolatedByTitle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	a, _ := s.Create(ctx, "August 2025", 0, 0)
	b, _ := s.Create(ctx, "September 2025", 0, 0)

	_ = a.Append(ctx, []string{"only-august"})
	rows, err := b.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %v", rows)
	}
}
