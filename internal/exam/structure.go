package exam

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// SaveStructure reconciles a full desired outline against the persisted
// rows. Sections are resolved first so that questions referencing a
// placeholder section can use the canonical id assigned in the same
// call. The whole save runs in one transaction; failure on any entity
// aborts with nothing applied.
func (s *SQLStore) SaveStructure(ctx context.Context, examID string, patch ExamPatch, sections []SectionInput, questions []QuestionInput) (StructureResult, error) {
	res := StructureResult{SectionIDs: map[string]string{}, QuestionIDs: map[string]string{}}

	if err := validateStructure(patch, sections, questions); err != nil {
		return res, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, Wrap(KindInternal, err, "begin structure save")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	e, err := s.getExamRow(ctx, tx, examID)
	if err != nil {
		return res, err
	}

	status := e.Status
	if patch.Status != "" && patch.Status != e.Status {
		if !ValidStatus(patch.Status) || patch.Status == StatusDeleted {
			err = E(KindValidation, "unknown status %q", patch.Status)
			return res, err
		}
		if !CanTransition(e.Status, patch.Status) {
			err = E(KindValidation, "cannot transition from %s to %s", e.Status, patch.Status)
			return res, err
		}
		status = patch.Status
	}

	cfg := patch.ModulesConfig
	if len(cfg) == 0 {
		cfg = e.ModulesConfig
	}
	code := patch.AccessCode
	if code == "" {
		code = e.AccessCode
	}

	_, err = tx.ExecContext(ctx, `UPDATE exams SET title=$1, description=$2, status=$3, modules_config=$4, access_code=$5, exam_type=$6 WHERE id=$7`,
		patch.Title, patch.Description, status, string(cfg), code, orDefault(patch.Type, e.Type), examID)
	if err != nil {
		err = storeErr(err, "exam metadata conflict")
		return res, err
	}

	// Phase 1: sections, building the placeholder -> canonical map.
	for _, sec := range sections {
		if sec.ID != "" {
			var r int64
			r, err = execAffected(ctx, tx, `UPDATE exam_sections SET module_type=$1, section_order=$2, title=$3, content=$4, audio_url=$5, duration_minutes=$6 WHERE id=$7 AND exam_id=$8`,
				sec.ModuleType, sec.SectionOrder, sec.Title, sec.Content, sec.AudioURL, sec.DurationMinutes, sec.ID, examID)
			if err != nil {
				err = storeErr(err, "section update conflict")
				return res, err
			}
			if r == 0 {
				err = E(KindNotFound, "section %s not found for exam", sec.ID)
				return res, err
			}
			continue
		}
		id := uuid.NewString()
		_, err = tx.ExecContext(ctx, `INSERT INTO exam_sections (id,exam_id,module_type,section_order,title,content,audio_url,duration_minutes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			id, examID, sec.ModuleType, sec.SectionOrder, sec.Title, sec.Content, sec.AudioURL, sec.DurationMinutes)
		if err != nil {
			err = storeErr(err, "section insert conflict")
			return res, err
		}
		res.SectionIDs[sec.Ref] = id
	}

	// Phase 2: questions, resolving section references through the map.
	for _, q := range questions {
		sectionID := q.SectionID
		if sectionID == "" {
			mapped, ok := res.SectionIDs[q.SectionRef]
			if !ok {
				err = E(KindValidation, "question references unknown section ref %q", q.SectionRef)
				return res, err
			}
			sectionID = mapped
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		if q.ID != "" {
			var r int64
			r, err = execAffected(ctx, tx, `UPDATE questions SET section_id=$1, question_number=$2, question_text=$3, question_type=$4, correct_answer=$5, points=$6 WHERE id=$7 AND exam_id=$8`,
				sectionID, q.QuestionNumber, q.Text, q.Type, q.CorrectAnswer, points, q.ID, examID)
			if err != nil {
				err = storeErr(err, "question update conflict")
				return res, err
			}
			if r == 0 {
				err = E(KindNotFound, "question %s not found for exam", q.ID)
				return res, err
			}
			continue
		}
		id := uuid.NewString()
		_, err = tx.ExecContext(ctx, `INSERT INTO questions (id,exam_id,section_id,question_number,question_text,question_type,correct_answer,points)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			id, examID, sectionID, q.QuestionNumber, q.Text, q.Type, q.CorrectAnswer, points)
		if err != nil {
			err = storeErr(err, "question insert conflict")
			return res, err
		}
		res.QuestionIDs[q.Ref] = id
	}

	if err = tx.Commit(); err != nil {
		err = Wrap(KindInternal, err, "commit structure save")
		return res, err
	}
	return res, nil
}

func validateStructure(patch ExamPatch, sections []SectionInput, questions []QuestionInput) error {
	if strings.TrimSpace(patch.Title) == "" {
		return E(KindValidation, "exam title is required")
	}
	refs := map[string]bool{}
	for i, sec := range sections {
		if (sec.ID == "") == (sec.Ref == "") {
			return E(KindValidation, "section %d must carry exactly one of id or ref", i)
		}
		if sec.Ref != "" {
			if refs[sec.Ref] {
				return E(KindValidation, "duplicate section ref %q", sec.Ref)
			}
			refs[sec.Ref] = true
		}
	}
	for i, q := range questions {
		if (q.ID == "") == (q.Ref == "") {
			return E(KindValidation, "question %d must carry exactly one of id or ref", i)
		}
		if (q.SectionID == "") == (q.SectionRef == "") {
			return E(KindValidation, "question %d must reference a section by id or ref", i)
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// execAffected runs an UPDATE and reports affected rows.
func execAffected(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	r, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}
