package ledger

import (
	"context"
	"fmt"
	"strings"

	"expenses/internal/core"
)

// Aggregator reduces a month's records into summary mappings. Field parse
// failures are recovered locally: a bad amount counts as zero, a bad date
// drops the row from the by-day reduction only.
type Aggregator struct {
	resolver *Resolver
}

func NewAggregator(resolver *Resolver) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// ByCategory sums amounts grouped by trimmed category, case preserved.
// The selector follows ResolveSelector semantics.
func (a *Aggregator) ByCategory(ctx context.Context, selector string) (map[string]float64, error) {
	records, err := a.records(ctx, selector)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, rec := range records {
		category := strings.TrimSpace(rec["Category"])
		out[category] += core.ParseAmount(rec["Amount"])
	}
	return out, nil
}

// ByDay sums amounts grouped by two-digit day of month. Keys are zero-padded
// ("01".."31") so lexical order is ascending day order.
func (a *Aggregator) ByDay(ctx context.Context, selector string) (map[string]float64, error) {
	records, err := a.records(ctx, selector)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, rec := range records {
		d, err := core.ParseDate(rec["Date"])
		if err != nil {
			continue
		}
		key := fmt.Sprintf("%02d", d.Day())
		out[key] += core.ParseAmount(rec["Amount"])
	}
	return out, nil
}

func (a *Aggregator) records(ctx context.Context, selector string) ([]map[string]string, error) {
	month, err := a.resolver.ResolveSelector(ctx, selector)
	if err != nil {
		return nil, err
	}
	records, err := month.Table.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records of %q: %w", month.Title, err)
	}
	return records, nil
}
