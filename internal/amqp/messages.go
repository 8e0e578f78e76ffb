package amqp

import (
	"encoding/json"
	"time"
)

// EntryUpsertedMessage announces that a ledger row was added or updated.
// Consumers get the full entry; no follow-up read is required.
type EntryUpsertedMessage struct {
	MonthTitle string    `json:"month_title"`
	Date       string    `json:"date"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *EntryUpsertedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryUpsertedMessageFromJSON(data []byte) (*EntryUpsertedMessage, error) {
	var msg EntryUpsertedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
