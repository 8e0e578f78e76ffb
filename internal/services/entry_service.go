// Package services orchestrates ledger operations with their side channels.
package services

import (
	"context"
	"log/slog"

	"expenses/internal/amqp"
	"expenses/internal/core"
	"expenses/internal/ledger"
)

// EntryService runs upserts through the ledger engine and publishes an event
// for each committed change. Publishing is best-effort: the entry is already
// recorded, so a broker failure is logged and swallowed.
type EntryService struct {
	engine    *ledger.Engine
	publisher *amqp.Publisher
}

func NewEntryService(engine *ledger.Engine, publisher *amqp.Publisher) *EntryService {
	return &EntryService{engine: engine, publisher: publisher}
}

func (s *EntryService) Upsert(ctx context.Context, entry core.Entry) (core.Action, error) {
	action, err := s.engine.Upsert(ctx, entry)
	if err != nil {
		return "", err
	}

	msg := &amqp.EntryUpsertedMessage{
		MonthTitle: ledger.TitleForDate(entry.Date),
		Date:       entry.Date.String(),
		Category:   entry.Category,
		Amount:     entry.Amount,
		Note:       entry.Note,
		Action:     string(action),
	}
	if err := s.publisher.PublishEntryUpserted(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry upserted event",
			"month", msg.MonthTitle, "date", msg.Date, "error", err)
	}

	return action, nil
}

func (s *EntryService) Close() error {
	return s.publisher.Close()
}
