package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examforge/examforge/internal/exam"
)

type saveStructureReq struct {
	Exam      exam.ExamPatch       `json:"exam" validate:"required"`
	Sections  []exam.SectionInput  `json:"sections" validate:"required"`
	Questions []exam.QuestionInput `json:"questions" validate:"required"`
}

// PUT /exams/{examID}/structure
//
// The response carries the placeholder -> canonical id mapping; clients
// must carry those ids into the next save or the reconciler will insert
// duplicates.
func SaveStructureHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req saveStructureReq
		if err := decodeValid(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		res, err := store.SaveStructure(r.Context(), id, req.Exam, req.Sections, req.Questions)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
