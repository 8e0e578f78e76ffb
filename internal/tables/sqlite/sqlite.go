// Package sqlite implements tables.Store on a local SQLite database. Each
// logical table is a set of (title, position, cells) rows; inserts shift
// positions the same way a worksheet shifts rows down.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"expenses/internal/tables"
)

type Store struct {
	db *sql.DB
}

var _ tables.Store = (*Store)(nil)

// Open runs pending migrations and opens the ledger database.
func Open(path string) (*Store, error) {
	if err := RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	// Single writer: SQLite serializes writes anyway, and a single
	// connection avoids SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Lookup(ctx context.Context, title string) (tables.Table, bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM ledger_tables WHERE title = ?`, title).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup table %q: %w", title, err)
	}
	return &Table{db: s.db, title: title}, true, nil
}

func (s *Store) Create(ctx context.Context, title string, _, _ int) (tables.Table, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_tables (title) VALUES (?) ON CONFLICT (title) DO NOTHING`, title)
	if err != nil {
		return nil, fmt.Errorf("create table %q: %w", title, err)
	}
	return &Table{db: s.db, title: title}, nil
}

// Table addresses the rows of one month ledger. Positions are 1-based and
// contiguous; the header lives at position 1 like any other row.
type Table struct {
	db    *sql.DB
	title string
}

var _ tables.Table = (*Table)(nil)

func (t *Table) Rows(ctx context.Context) ([][]string, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT c0, c1, c2, c3 FROM ledger_rows WHERE title = ? ORDER BY pos`, t.title)
	if err != nil {
		return nil, fmt.Errorf("read rows of %q: %w", t.title, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, 4)
		if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3]); err != nil {
			return nil, fmt.Errorf("scan row of %q: %w", t.title, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %q: %w", t.title, err)
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

func (t *Table) Append(ctx context.Context, row []string) error {
	cells := tables.PadRow(row, 4)
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO ledger_rows (title, pos, c0, c1, c2, c3)
		SELECT ?, COALESCE(MAX(pos), 0) + 1, ?, ?, ?, ?
		FROM ledger_rows WHERE title = ?1`,
		t.title, cells[0], cells[1], cells[2], cells[3])
	if err != nil {
		return fmt.Errorf("append to %q: %w", t.title, err)
	}
	return nil
}

func (t *Table) InsertAt(ctx context.Context, index int, row []string) error {
	if index < 1 {
		return fmt.Errorf("insert into %q: index %d out of range", t.title, index)
	}
	cells := tables.PadRow(row, 4)

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert into %q: begin: %w", t.title, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE ledger_rows SET pos = pos + 1 WHERE title = ? AND pos >= ?`, t.title, index)
	if err != nil {
		return fmt.Errorf("insert into %q: shift rows: %w", t.title, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_rows (title, pos, c0, c1, c2, c3) VALUES (?, ?, ?, ?, ?, ?)`,
		t.title, index, cells[0], cells[1], cells[2], cells[3])
	if err != nil {
		return fmt.Errorf("insert into %q: %w", t.title, err)
	}
	return tx.Commit()
}

func (t *Table) UpdateCell(ctx context.Context, row, col int, value string) error {
	var column string
	switch col {
	case 1:
		column = "c0"
	case 2:
		column = "c1"
	case 3:
		column = "c2"
	case 4:
		column = "c3"
	default:
		return fmt.Errorf("update %q: column %d out of range [1,4]", t.title, col)
	}

	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE ledger_rows SET %s = ? WHERE title = ? AND pos = ?`, column),
		value, t.title, row)
	if err != nil {
		return fmt.Errorf("update %q cell (%d,%d): %w", t.title, row, col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %q cell (%d,%d): %w", t.title, row, col, err)
	}
	if n == 0 {
		return fmt.Errorf("update %q cell (%d,%d): row does not exist", t.title, row, col)
	}
	return nil
}
