package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/exam"
)

type violationReq struct {
	Type     string          `json:"type" validate:"required"`
	Metadata json.RawMessage `json:"metadata"`
}

// POST /exams/{examID}/violations
func RecordViolationHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req violationReq
		if err := decodeValid(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		v, err := store.RecordViolation(r.Context(), id, authmw.UserIDFromContext(r.Context()), req.Type, req.Metadata)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

// GET /exams/{examID}/logs
func ExamLogsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		list, err := store.ListViolations(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
