package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/grading"
)

// Submit grades one learner attempt and persists it exactly once.
// The existence check is a fast path; the unique (exam_id, user_id)
// constraint is the real enforcement under concurrent duplicates.
func (s *SQLStore) Submit(ctx context.Context, examID string, in SubmitInput) (Submission, error) {
	if in.UserID == "" {
		return Submission{}, E(KindValidation, "user id is required")
	}
	if in.Answers == nil {
		return Submission{}, E(KindValidation, "answers are required")
	}

	e, err := s.getExamRow(ctx, s.db, examID)
	if err != nil {
		return Submission{}, err
	}
	if e.Status != StatusActive {
		return Submission{}, E(KindForbidden, "exam is not active")
	}

	var existing string
	err = s.db.QueryRowContext(ctx, `SELECT id FROM exam_submissions WHERE exam_id=$1 AND user_id=$2`,
		examID, in.UserID).Scan(&existing)
	if err == nil {
		return Submission{}, E(KindConflict, "already submitted")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Submission{}, Wrap(KindInternal, err, "check existing submission")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, correct_answer, points FROM questions WHERE exam_id=$1`, examID)
	if err != nil {
		return Submission{}, Wrap(KindInternal, err, "load questions")
	}
	defer rows.Close()

	var (
		graded        []Answer
		totalAwarded  float64
		totalPossible float64
		count         int
	)
	for rows.Next() {
		var qid, canonical string
		var points float64
		if err := rows.Scan(&qid, &canonical, &points); err != nil {
			return Submission{}, Wrap(KindInternal, err, "scan question")
		}
		if points <= 0 {
			points = 1
		}
		supplied, has := in.Answers[qid]
		score := 0.0
		correct := false
		if has && grading.Match(supplied, canonical) {
			correct = true
			score = points
		}
		totalAwarded += score
		totalPossible += points
		count++
		graded = append(graded, Answer{
			QuestionID: qid,
			UserAnswer: supplied,
			IsCorrect:  correct,
			Score:      score,
		})
	}
	if err := rows.Err(); err != nil {
		return Submission{}, Wrap(KindInternal, err, "load questions")
	}

	sub := Submission{
		ID:             uuid.NewString(),
		ExamID:         examID,
		UserID:         in.UserID,
		Status:         "submitted",
		TotalCorrect:   totalAwarded,
		TotalQuestions: count,
		BandScore:      grading.Band(totalAwarded, totalPossible),
		TimeSpent:      in.TimeSpent,
		SubmittedAt:    time.Now().Unix(),
	}
	if len(sub.TimeSpent) == 0 {
		sub.TimeSpent = json.RawMessage(`{}`)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Submission{}, Wrap(KindInternal, err, "begin submit")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO exam_submissions
		(id,exam_id,user_id,status,total_correct,total_questions,overall_band_score,time_spent_json,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		sub.ID, sub.ExamID, sub.UserID, sub.Status, sub.TotalCorrect, sub.TotalQuestions,
		sub.BandScore, string(sub.TimeSpent), sub.SubmittedAt)
	if err != nil {
		err = storeErr(err, "already submitted")
		return Submission{}, err
	}

	for i := range graded {
		graded[i].ID = uuid.NewString()
		graded[i].SubmissionID = sub.ID
		_, err = tx.ExecContext(ctx, `INSERT INTO answers (id,submission_id,question_id,user_answer,is_correct,score)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			graded[i].ID, graded[i].SubmissionID, graded[i].QuestionID,
			graded[i].UserAnswer, graded[i].IsCorrect, graded[i].Score)
		if err != nil {
			err = storeErr(err, "answer insert conflict")
			return Submission{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = Wrap(KindInternal, err, "commit submit")
		return Submission{}, err
	}
	return sub, nil
}
