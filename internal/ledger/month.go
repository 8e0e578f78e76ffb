// Package ledger implements the per-month expense ledger: month resolution,
// the chronological deduplicating upsert, and the summary reductions.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expenses/internal/core"
	"expenses/internal/tables"
)

// TitleLayout renders canonical month titles, e.g. "September 2025".
const TitleLayout = "January 2006"

// New tables are created with a bounded default capacity. Backends that grow
// on demand may ignore these.
const (
	defaultTableRows = 1000
	defaultTableCols = 10
)

// Month is a resolved ledger handle: a canonical title and the table behind it,
// guaranteed to exist with the canonical header row.
type Month struct {
	Title string
	Table tables.Table
}

type Resolver struct {
	store tables.Store
}

func NewResolver(store tables.Store) *Resolver {
	return &Resolver{store: store}
}

// TitleForDate returns the canonical table title for the date's month.
func TitleForDate(d core.Date) string {
	return d.Format(TitleLayout)
}

// TitleForSelector maps a "YYYY-MM" token to a canonical title. An empty
// selector means the current month.
func TitleForSelector(selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return time.Now().Format(TitleLayout), nil
	}
	t, err := time.Parse("2006-01", selector)
	if err != nil {
		return "", core.ErrInvalidSelector
	}
	return t.Format(TitleLayout), nil
}

// ResolveDate returns the ledger for the date's month, creating it if needed.
func (r *Resolver) ResolveDate(ctx context.Context, d core.Date) (*Month, error) {
	return r.resolve(ctx, TitleForDate(d))
}

// ResolveSelector returns the ledger for a "YYYY-MM" selector, defaulting to
// the current month when the selector is empty.
func (r *Resolver) ResolveSelector(ctx context.Context, selector string) (*Month, error) {
	title, err := TitleForSelector(selector)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, title)
}

func (r *Resolver) resolve(ctx context.Context, title string) (*Month, error) {
	tbl, found, err := r.store.Lookup(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("lookup ledger %q: %w", title, err)
	}
	if !found {
		tbl, err = r.store.Create(ctx, title, defaultTableRows, defaultTableCols)
		if err != nil {
			return nil, fmt.Errorf("create ledger %q: %w", title, err)
		}
	}

	// The header is re-established defensively on every resolve; the table
	// may have been created fresh or tampered with out of band.
	if err := ensureHeader(ctx, tbl); err != nil {
		return nil, fmt.Errorf("ensure header of %q: %w", title, err)
	}

	// Cosmetic only. A formatting failure never aborts the operation.
	if f, ok := tbl.(tables.HeaderFormatter); ok {
		if err := f.FormatHeader(ctx); err != nil {
			slog.WarnContext(ctx, "Header formatting failed", "ledger", title, "error", err)
		}
	}

	return &Month{Title: title, Table: tbl}, nil
}

func ensureHeader(ctx context.Context, tbl tables.Table) error {
	rows, err := tbl.Rows(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return tbl.Append(ctx, core.Header)
	}

	first := tables.PadRow(rows[0], len(core.Header))
	ok := true
	for i, want := range core.Header {
		if first[i] != want {
			ok = false
			break
		}
	}
	if ok {
		return nil
	}
	for i, cell := range core.Header {
		if err := tbl.UpdateCell(ctx, 1, i+1, cell); err != nil {
			return err
		}
	}
	return nil
}
