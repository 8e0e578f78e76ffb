package tables

import "testing"

func TestRecordsFromRows(t *testing.T) {
	rows := [][]string{
		{"Date", "Category", "Amount", "Note"},
		{"2025-09-01", "Food", "100"},
		{"2025-09-02", "Travel", "50", "train", "extra"},
	}
	recs := RecordsFromRows(rows)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["Note"] != "" {
		t.Fatalf("short row should read as empty cell, got %q", recs[0]["Note"])
	}
	if recs[1]["Amount"] != "50" || recs[1]["Note"] != "train" {
		t.Fatalf("unexpected record: %v", recs[1])
	}
	if len(recs[1]) != 4 {
		t.Fatalf("extra cells beyond header should be dropped: %v", recs[1])
	}
}

func TestRecordsFromRowsEmpty(t *testing.T) {
	if recs := RecordsFromRows(nil); recs != nil {
		t.Fatalf("expected nil for empty grid, got %v", recs)
	}
	if recs := RecordsFromRows([][]string{{"Date"}}); len(recs) != 0 {
		t.Fatalf("header-only grid should yield no records, got %v", recs)
	}
}

func TestPadRow(t *testing.T) {
	row := PadRow([]string{"a"}, 4)
	if len(row) != 4 || row[0] != "a" || row[3] != "" {
		t.Fatalf("unexpected padded row: %v", row)
	}
	same := []string{"a", "b", "c", "d"}
	if got := PadRow(same, 4); &got[0] != &same[0] {
		t.Fatalf("full-width row should be returned as-is")
	}
}
