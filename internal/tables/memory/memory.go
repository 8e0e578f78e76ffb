// Package memory provides an in-memory tables.Store used by tests and the
// memory data backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expenses/internal/tables"
)

type Store struct {
	mu     sync.Mutex
	tables map[string]*Table
}

var _ tables.Store = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string]*Table)}
}

func (s *Store) Lookup(_ context.Context, title string) (tables.Table, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[title]
	if !ok {
		return nil, false, nil
	}
	return t, true, nil
}

func (s *Store) Create(_ context.Context, title string, _, _ int) (tables.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[title]; ok {
		return t, nil
	}
	t := &Table{title: title}
	s.tables[title] = t
	return t, nil
}

// Titles returns the names of all created tables.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tables))
	for title := range s.tables {
		out = append(out, title)
	}
	return out
}

// Table is a growable in-memory grid. The requested capacity at creation is
// ignored; rows and columns grow on demand.
type Table struct {
	mu    sync.Mutex
	title string
	rows  [][]string
}

var _ tables.Table = (*Table)(nil)

func (t *Table) Rows(_ context.Context) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (t *Table) Records(ctx context.Context) ([]map[string]string, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return tables.RecordsFromRows(rows), nil
}

func (t *Table) Append(_ context.Context, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (t *Table) InsertAt(_ context.Context, index int, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 1 || index > len(t.rows)+1 {
		return fmt.Errorf("table %q: insert index %d out of range [1,%d]", t.title, index, len(t.rows)+1)
	}
	i := index - 1
	t.rows = append(t.rows, nil)
	copy(t.rows[i+1:], t.rows[i:])
	t.rows[i] = append([]string(nil), row...)
	return nil
}

func (t *Table) UpdateCell(_ context.Context, row, col int, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 1 || row > len(t.rows) {
		return fmt.Errorf("table %q: row %d out of range [1,%d]", t.title, row, len(t.rows))
	}
	if col < 1 {
		return fmt.Errorf("table %q: column %d out of range", t.title, col)
	}
	r := t.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	t.rows[row-1] = r
	return nil
}
