package services

import (
	"context"
	"errors"
	"testing"

	"expenses/internal/core"
	"expenses/internal/ledger"
	"expenses/internal/tables/memory"
)

func newTestService() *EntryService {
	engine := ledger.NewEngine(ledger.NewResolver(memory.New()))
	// No publisher configured: events are skipped, upserts still succeed.
	return NewEntryService(engine, nil)
}

func TestUpsertWithoutPublisher(t *testing.T) {
	s := newTestService()
	entry := core.Entry{Date: core.NewDate(2025, 9, 5), Category: "Food", Amount: 10}

	action, err := s.Upsert(context.Background(), entry)
	if err != nil || action != core.ActionAdded {
		t.Fatalf("upsert: action=%q err=%v", action, err)
	}

	if _, err := s.Upsert(context.Background(), entry); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate to pass through, got %v", err)
	}
}

func TestCloseWithoutPublisher(t *testing.T) {
	if err := newTestService().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
