package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"expenses/internal/cache"
	"expenses/internal/core"
	"expenses/internal/ledger"
)

type addExpenseRequest struct {
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
	Note     string   `json:"note"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	entry := core.Entry{Category: req.Category, Note: req.Note}
	if req.Amount != nil {
		entry.Amount = *req.Amount
	}
	if strings.TrimSpace(entry.Category) == "" {
		entry.Category = s.defaultCategory
	}

	if strings.TrimSpace(req.Date) == "" {
		entry.Date = core.Today()
	} else {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date %q: expected YYYY-MM-DD", req.Date))
			return
		}
		entry.Date = d
	}

	action, err := s.entries.Upsert(r.Context(), entry)
	if err != nil {
		s.writeUpsertError(w, r, err)
		return
	}

	// The month's cached summaries are stale after any successful write.
	title := ledger.TitleForDate(entry.Date)
	s.summaryCache.Delete(title)
	s.dailyCache.Delete(title)

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"action": string(action),
	})
}

func (s *Server) writeUpsertError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrFutureDate):
		writeError(w, http.StatusBadRequest, "Future dates are not allowed. Use today or past dates.")
	case errors.Is(err, core.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "Duplicate expense found. Entry not added.")
	case errors.Is(err, core.ErrInvalidSelector), errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.serveSummary(w, r, "summary", s.summaryCache, s.agg.ByCategory)
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	s.serveSummary(w, r, "daily_summary", s.dailyCache, s.agg.ByDay)
}

// serveSummary answers both summary endpoints: resolve the month selector to a
// title, serve from cache when possible, and collapse concurrent recomputation
// of the same month through singleflight.
func (s *Server) serveSummary(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	c *cache.TTL[map[string]float64],
	compute func(ctx context.Context, selector string) (map[string]float64, error),
) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	selector := r.URL.Query().Get("month")
	title, err := ledger.TitleForSelector(selector)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid month %q: expected YYYY-MM", selector))
		return
	}

	if cached, ok := c.Get(title); ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", field: cached})
		return
	}

	result, err, _ := s.group.Do(field+":"+title, func() (any, error) {
		summary, err := compute(r.Context(), selector)
		if err != nil {
			return nil, err
		}
		c.Set(title, summary)
		return summary, nil
	})
	if err != nil {
		if errors.Is(err, core.ErrInvalidSelector) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid month %q: expected YYYY-MM", selector))
			return
		}
		slog.ErrorContext(r.Context(), "Summary failed", "month", title, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", field: result.(map[string]float64)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": "error", "message": message})
}
