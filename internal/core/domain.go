package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and cell format for entry dates.
const DateLayout = "2006-01-02"

// Header is the fixed four-column header of every month ledger.
var Header = []string{"Date", "Category", "Amount", "Note"}

type (
	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	// Entry is a single expense row.
	Entry struct {
		Date     Date
		Category string
		Amount   float64
		Note     string
	}

	// Action reports what an upsert did to the ledger.
	Action string
)

const (
	ActionAdded   Action = "Added"
	ActionUpdated Action = "Updated"
)

var (
	ErrInvalidSelector = errors.New("invalid date or month selector")
	ErrFutureDate      = errors.New("future dates are not allowed")
	ErrDuplicate       = errors.New("duplicate expense")
	ErrInvalidAmount   = errors.New("amount must be non-negative")
)

// NewDate creates a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Failures map to ErrInvalidSelector.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidSelector
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String renders the date in DateLayout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// After reports whether d is strictly later than other. Both sides are
// normalized to midnight UTC by the constructors, so this compares dates only.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return other.After(d)
}

// Normalize trims surrounding whitespace from the text fields.
func (e Entry) Normalize() Entry {
	e.Category = strings.TrimSpace(e.Category)
	e.Note = strings.TrimSpace(e.Note)
	return e
}

// Validate checks the entry against the ledger's data model.
func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidSelector
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Row renders the entry as a ledger row in header column order.
func (e Entry) Row() []string {
	return []string{e.Date.String(), e.Category, FormatAmount(e.Amount), e.Note}
}

// ParseAmount converts a cell value to a float. Unparseable values coerce
// to 0 so a single bad cell never aborts a scan or an aggregation.
func ParseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatAmount renders an amount the way it is stored in cells.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
