package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"expenses/internal/core"
	"expenses/internal/tables"
)

// Engine applies the insert-or-update policy to a month ledger.
//
// The read-then-mutate sequence is not atomic against the backend. Upserts
// for the same month are serialized with an in-process lock, which is the
// strongest guarantee a single process can cheaply give; concurrent writers
// in other processes can still interleave. Known limitation, not remediated.
type Engine struct {
	resolver *Resolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(resolver *Resolver) *Engine {
	return &Engine{resolver: resolver, locks: make(map[string]*sync.Mutex)}
}

func (e *Engine) lockFor(title string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[title]
	if !ok {
		l = &sync.Mutex{}
		e.locks[title] = l
	}
	return l
}

// Upsert records the entry in its month ledger. It returns ActionAdded when a
// new row was appended or inserted in chronological position, ActionUpdated
// when an existing same-date same-category row had its Amount and Note
// overwritten, core.ErrDuplicate when an identical row already exists, and
// core.ErrFutureDate for entries dated after today. Future dates are rejected
// before any storage access.
func (e *Engine) Upsert(ctx context.Context, entry core.Entry) (core.Action, error) {
	entry = entry.Normalize()
	if err := entry.Validate(); err != nil {
		return "", err
	}
	if entry.Date.After(core.Today()) {
		return "", core.ErrFutureDate
	}

	title := TitleForDate(entry.Date)
	lock := e.lockFor(title)
	lock.Lock()
	defer lock.Unlock()

	month, err := e.resolver.ResolveDate(ctx, entry.Date)
	if err != nil {
		return "", err
	}

	rows, err := month.Table.Rows(ctx)
	if err != nil {
		return "", fmt.Errorf("read ledger %q: %w", title, err)
	}
	if len(rows) <= 1 {
		// Fresh ledger: only the header exists.
		if err := month.Table.Append(ctx, entry.Row()); err != nil {
			return "", fmt.Errorf("append to ledger %q: %w", title, err)
		}
		return core.ActionAdded, nil
	}

	dateStr := entry.Date.String()

	// One linear pass, header skipped. Two trackers, first match only;
	// an exact duplicate stops the scan before anything is written.
	insertIdx := 0
	updateIdx := 0
	for i := 1; i < len(rows); i++ {
		row := tables.PadRow(rows[i], 4)
		rowDate := strings.TrimSpace(row[0])
		rowCategory := strings.TrimSpace(row[1])
		rowNote := strings.TrimSpace(row[3])

		// Chronological insertion point: the first row dated strictly
		// later than the candidate. Unparseable dates are ignored for
		// ordering purposes.
		if insertIdx == 0 {
			if existing, err := core.ParseDate(rowDate); err == nil && entry.Date.Before(existing) {
				insertIdx = i + 1
			}
		}

		if rowDate == dateStr && strings.EqualFold(rowCategory, entry.Category) {
			if core.ParseAmount(row[2]) == entry.Amount && rowNote == entry.Note {
				return "", core.ErrDuplicate
			}
			if updateIdx == 0 {
				updateIdx = i + 1
			}
		}
	}

	switch {
	case updateIdx > 0:
		// Same date and category: overwrite Amount and Note in place.
		if err := month.Table.UpdateCell(ctx, updateIdx, 3, core.FormatAmount(entry.Amount)); err != nil {
			return "", fmt.Errorf("update ledger %q row %d: %w", title, updateIdx, err)
		}
		if err := month.Table.UpdateCell(ctx, updateIdx, 4, entry.Note); err != nil {
			return "", fmt.Errorf("update ledger %q row %d: %w", title, updateIdx, err)
		}
		return core.ActionUpdated, nil
	case insertIdx > 0:
		if err := month.Table.InsertAt(ctx, insertIdx, entry.Row()); err != nil {
			return "", fmt.Errorf("insert into ledger %q at %d: %w", title, insertIdx, err)
		}
		return core.ActionAdded, nil
	default:
		// Latest date in the ledger: append at the end.
		if err := month.Table.Append(ctx, entry.Row()); err != nil {
			return "", fmt.Errorf("append to ledger %q: %w", title, err)
		}
		return core.ActionAdded, nil
	}
}
