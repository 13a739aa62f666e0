package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/rbac"
)

// DELETE /exams/{examID}
func DeleteExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteExam(r.Context(), chi.URLParam(r, "examID")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "exam deleted"})
	}
}

// POST /exams/{examID}/restore
func RestoreExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.RestoreExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// DELETE /exams/{examID}/purge — irreversible, cascades to all child
// rows.
func PurgeExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.PurgeExam(r.Context(), chi.URLParam(r, "examID")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "exam purged"})
	}
}

// GET /admin/exams/deleted
func DeletedExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExams(r.Context(), exam.ListOpts{
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
			ViewerRole: rbac.RoleFromContext(r.Context()),
			Deleted:    true,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /admin/stats
func StatsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Stats(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
