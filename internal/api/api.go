// Package api exposes stored feedback to local admin tooling over a
// loopback HTTP interface. The chat-facing flow never goes through here.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"feedbot/internal/storage"
)

// FeedbackReader is the read-only store surface the API serves.
type FeedbackReader interface {
	ListFeedback(limit int) ([]storage.Feedback, error)
	CountFeedback() (int, error)
}

type Deps struct {
	Store FeedbackReader
	Token string
}

// feedbackJSON is the wire shape of one record.
type feedbackJSON struct {
	ID          string   `json:"id"`
	AnonymousID string   `json:"anonymous_id"`
	Answers     []string `json:"answers"`
	SubmittedAt string   `json:"submitted_at"`
}

// NewHandler builds the admin router. /health is open; everything else
// requires the bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(deps.Token))
		r.Get("/feedback", handleListFeedback(deps))
		r.Get("/feedback/export", handleExportFeedback(deps))
		r.Get("/stats", handleStats(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleListFeedback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request", "invalid limit %q", v)
				return
			}
			limit = n
		}

		records, err := deps.Store.ListFeedback(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "storage_error", "listing feedback: %v", err)
			return
		}

		out := make([]feedbackJSON, len(records))
		for i, rec := range records {
			out[i] = toJSON(rec)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// handleExportFeedback streams every record as JSONL, one object per line.
func handleExportFeedback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := deps.Store.ListFeedback(0)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "storage_error", "listing feedback: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for _, rec := range records {
			enc.Encode(toJSON(rec))
		}
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := deps.Store.CountFeedback()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "storage_error", "counting feedback: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"count": count})
	}
}

func toJSON(rec storage.Feedback) feedbackJSON {
	return feedbackJSON{
		ID:          rec.ID,
		AnonymousID: rec.AnonymousID,
		Answers:     rec.Answers,
		SubmittedAt: rec.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
