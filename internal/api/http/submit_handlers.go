package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/exam"
)

type submitReq struct {
	Answers   map[string]string `json:"answers" validate:"required"`
	TimeSpent json.RawMessage   `json:"time_spent_by_module"`
}

// POST /exams/{examID}/submit
func SubmitExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req submitReq
		if err := decodeValid(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		sub, err := store.Submit(r.Context(), id, exam.SubmitInput{
			UserID:    authmw.UserIDFromContext(r.Context()),
			Answers:   req.Answers,
			TimeSpent: req.TimeSpent,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "exam submitted successfully",
			"score":   sub.BandScore,
		})
	}
}
