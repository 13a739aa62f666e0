package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/rbac"
)

// POST /exams
func CreateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exam.CreateExamInput
		if err := decodeValid(r, &in); err != nil {
			writeErr(w, err)
			return
		}
		e, err := store.CreateExam(r.Context(), in, authmw.UserIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// GET /exams
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExams(r.Context(), exam.ListOpts{
			Q:          strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
			ViewerRole: rbac.RoleFromContext(r.Context()),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /exams/{examID}
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		view, err := store.GetExam(r.Context(), id, rbac.RoleFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// PUT /exams/{examID}/status
func SetExamStatusHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var patch exam.StatusPatch
		if err := decodeValid(r, &patch); err != nil {
			writeErr(w, err)
			return
		}
		e, err := store.SetExamStatus(r.Context(), id, patch)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
