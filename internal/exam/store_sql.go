package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

const examCols = `id,title,description,duration_minutes,modules_config,status,prev_status,exam_type,access_code,security_level,target_audience,COALESCE(assigned_classroom_id,''),created_by,created_at`

func scanExam(row interface{ Scan(...any) error }) (Exam, error) {
	var e Exam
	var cfg, prev string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes, &cfg,
		&e.Status, &prev, &e.Type, &e.AccessCode, &e.SecurityLevel, &e.TargetAudience,
		&e.ClassroomID, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return Exam{}, err
	}
	e.ModulesConfig = json.RawMessage(cfg)
	return e, nil
}

func (s *SQLStore) CreateExam(ctx context.Context, in CreateExamInput, createdBy string) (Exam, error) {
	if strings.TrimSpace(in.Title) == "" || in.DurationMinutes <= 0 {
		return Exam{}, E(KindValidation, "title and duration_minutes are required")
	}
	cfg := in.ModulesConfig
	if len(cfg) == 0 {
		cfg = json.RawMessage(`{}`)
	}
	code := in.AccessCode
	if code == "" {
		code = newAccessCode()
	}
	level := in.SecurityLevel
	if level == "" {
		level = "standard"
	}
	audience := in.TargetAudience
	if audience == "" {
		audience = "all"
	}
	e := Exam{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		ModulesConfig:   cfg,
		Status:          StatusDraft,
		AccessCode:      code,
		SecurityLevel:   level,
		TargetAudience:  audience,
		ClassroomID:     in.ClassroomID,
		CreatedBy:       createdBy,
		CreatedAt:       time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exams
		(id,title,description,duration_minutes,modules_config,status,prev_status,exam_type,access_code,security_level,target_audience,assigned_classroom_id,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,'','',$7,$8,$9,$10,$11,$12)`,
		e.ID, e.Title, e.Description, e.DurationMinutes, string(cfg), e.Status,
		e.AccessCode, e.SecurityLevel, e.TargetAudience, nullable(e.ClassroomID), e.CreatedBy, e.CreatedAt)
	if err != nil {
		return Exam{}, storeErr(err, "exam already exists")
	}
	return e, nil
}

func (s *SQLStore) getExamRow(ctx context.Context, q queryer, id string) (Exam, error) {
	e, err := scanExam(q.QueryRowContext(ctx, `SELECT `+examCols+` FROM exams WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Exam{}, E(KindNotFound, "exam not found")
	}
	if err != nil {
		return Exam{}, Wrap(KindInternal, err, "load exam")
	}
	return e, nil
}

// GetExam returns the exam with its ordered sections and questions.
// Students may only fetch active exams and never see answer keys.
func (s *SQLStore) GetExam(ctx context.Context, id, viewerRole string) (ExamView, error) {
	e, err := s.getExamRow(ctx, s.db, id)
	if err != nil {
		return ExamView{}, err
	}
	if !ReadableBy(e.Status, viewerRole) {
		if e.Status == StatusDeleted {
			return ExamView{}, E(KindNotFound, "exam not found")
		}
		return ExamView{}, E(KindForbidden, "exam is not active")
	}

	view := ExamView{Exam: e, Sections: []Section{}, Questions: []Question{}}

	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,module_type,section_order,title,content,audio_url,duration_minutes
		FROM exam_sections WHERE exam_id=$1 ORDER BY section_order`, id)
	if err != nil {
		return ExamView{}, Wrap(KindInternal, err, "load sections")
	}
	defer rows.Close()
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.ExamID, &sec.ModuleType, &sec.SectionOrder,
			&sec.Title, &sec.Content, &sec.AudioURL, &sec.DurationMinutes); err != nil {
			return ExamView{}, Wrap(KindInternal, err, "scan section")
		}
		view.Sections = append(view.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return ExamView{}, Wrap(KindInternal, err, "load sections")
	}

	qrows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,section_id,question_number,question_text,question_type,correct_answer,points
		FROM questions WHERE exam_id=$1 ORDER BY question_type, question_number`, id)
	if err != nil {
		return ExamView{}, Wrap(KindInternal, err, "load questions")
	}
	defer qrows.Close()
	for qrows.Next() {
		var q Question
		if err := qrows.Scan(&q.ID, &q.ExamID, &q.SectionID, &q.QuestionNumber,
			&q.Text, &q.Type, &q.CorrectAnswer, &q.Points); err != nil {
			return ExamView{}, Wrap(KindInternal, err, "scan question")
		}
		if viewerRole != "admin" {
			q.CorrectAnswer = ""
		}
		view.Questions = append(view.Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return ExamView{}, Wrap(KindInternal, err, "load questions")
	}
	return view, nil
}

func (s *SQLStore) ListExams(ctx context.Context, opts ListOpts) ([]Exam, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	where := []string{}
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return placeholder(n)
	}

	switch {
	case opts.Deleted:
		// dedicated deleted-items listing, privileged callers only
		where = append(where, `status = `+arg(string(StatusDeleted)))
	case opts.ViewerRole == "admin":
		where = append(where, `status != `+arg(string(StatusDeleted)))
	default:
		where = append(where, `status = `+arg(string(StatusActive)))
	}
	if q := strings.TrimSpace(opts.Q); q != "" {
		where = append(where, `title LIKE `+arg("%"+q+"%"))
	}

	query := `SELECT ` + examCols + ` FROM exams WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Wrap(KindInternal, err, "list exams")
	}
	defer rows.Close()
	out := []Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, Wrap(KindInternal, err, "scan exam")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetExamStatus(ctx context.Context, id string, patch StatusPatch) (Exam, error) {
	e, err := s.getExamRow(ctx, s.db, id)
	if err != nil {
		return Exam{}, err
	}
	if patch.Status != "" {
		if !ValidStatus(patch.Status) {
			return Exam{}, E(KindValidation, "unknown status %q", patch.Status)
		}
		if !CanTransition(e.Status, patch.Status) {
			return Exam{}, E(KindValidation, "cannot transition from %s to %s", e.Status, patch.Status)
		}
		e.Status = patch.Status
	}
	if patch.SecurityLevel != "" {
		e.SecurityLevel = patch.SecurityLevel
	}
	if patch.TargetAudience != "" {
		e.TargetAudience = patch.TargetAudience
	}
	if patch.ClassroomID != nil {
		e.ClassroomID = *patch.ClassroomID
	}
	_, err = s.db.ExecContext(ctx, `UPDATE exams SET status=$1, security_level=$2, target_audience=$3, assigned_classroom_id=$4 WHERE id=$5`,
		e.Status, e.SecurityLevel, e.TargetAudience, nullable(e.ClassroomID), id)
	if err != nil {
		return Exam{}, storeErr(err, "exam update conflict")
	}
	return e, nil
}

func (s *SQLStore) RecordViolation(ctx context.Context, examID, userID, typ string, metadata json.RawMessage) (Violation, error) {
	if strings.TrimSpace(typ) == "" {
		return Violation{}, E(KindValidation, "violation type is required")
	}
	if _, err := s.getExamRow(ctx, s.db, examID); err != nil {
		return Violation{}, err
	}
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}
	v := Violation{
		ID:         uuid.NewString(),
		ExamID:     examID,
		UserID:     userID,
		Type:       typ,
		Metadata:   metadata,
		OccurredAt: time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO violations (id,exam_id,user_id,violation_type,metadata,occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.ExamID, v.UserID, v.Type, string(v.Metadata), v.OccurredAt)
	if err != nil {
		return Violation{}, storeErr(err, "violation insert conflict")
	}
	return v, nil
}

func (s *SQLStore) ListViolations(ctx context.Context, examID string) ([]Violation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,user_id,violation_type,metadata,occurred_at
		FROM violations WHERE exam_id=$1 ORDER BY occurred_at DESC`, examID)
	if err != nil {
		return nil, Wrap(KindInternal, err, "list violations")
	}
	defer rows.Close()
	out := []Violation{}
	for rows.Next() {
		var v Violation
		var meta string
		if err := rows.Scan(&v.ID, &v.ExamID, &v.UserID, &v.Type, &meta, &v.OccurredAt); err != nil {
			return nil, Wrap(KindInternal, err, "scan violation")
		}
		v.Metadata = json.RawMessage(meta)
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteExam soft-deletes, recording the prior status so restore is
// exact.
func (s *SQLStore) DeleteExam(ctx context.Context, id string) error {
	e, err := s.getExamRow(ctx, s.db, id)
	if err != nil {
		return err
	}
	if e.Status == StatusDeleted {
		return E(KindConflict, "exam already deleted")
	}
	_, err = s.db.ExecContext(ctx, `UPDATE exams SET status=$1, prev_status=$2 WHERE id=$3`,
		StatusDeleted, e.Status, id)
	return storeErr(err, "exam delete conflict")
}

func (s *SQLStore) RestoreExam(ctx context.Context, id string) (Exam, error) {
	e, err := s.getExamRow(ctx, s.db, id)
	if err != nil {
		return Exam{}, err
	}
	if e.Status != StatusDeleted {
		return Exam{}, E(KindConflict, "exam is not deleted")
	}
	var prev string
	if err := s.db.QueryRowContext(ctx, `SELECT prev_status FROM exams WHERE id=$1`, id).Scan(&prev); err != nil {
		return Exam{}, Wrap(KindInternal, err, "load prior status")
	}
	restored := Status(prev)
	if !ValidStatus(restored) || restored == StatusDeleted {
		restored = StatusDraft
	}
	_, err = s.db.ExecContext(ctx, `UPDATE exams SET status=$1, prev_status='' WHERE id=$2`, restored, id)
	if err != nil {
		return Exam{}, storeErr(err, "exam restore conflict")
	}
	e.Status = restored
	return e, nil
}

// PurgeExam permanently removes a deleted exam. Child rows go with it
// via ON DELETE CASCADE.
func (s *SQLStore) PurgeExam(ctx context.Context, id string) error {
	e, err := s.getExamRow(ctx, s.db, id)
	if err != nil {
		return err
	}
	if e.Status != StatusDeleted {
		return E(KindConflict, "only deleted exams can be purged")
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	return storeErr(err, "exam purge conflict")
}

func (s *SQLStore) Stats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role='student' AND is_deleted=FALSE`).Scan(&st.TotalStudents); err != nil {
		// users table may be empty but must exist; treat scan failure as internal
		return st, Wrap(KindInternal, err, "count students")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exams WHERE status=$1`, StatusActive).Scan(&st.ActiveExams); err != nil {
		return st, Wrap(KindInternal, err, "count active exams")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam_submissions`).Scan(&st.TotalSubmissions); err != nil {
		return st, Wrap(KindInternal, err, "count submissions")
	}
	return st, nil
}

// queryer lets row loads run against *sql.DB or *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholder(n int) string {
	// both drivers accept $N
	return "$" + strconv.Itoa(n)
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newAccessCode() string {
	id := uuid.New()
	out := make([]byte, 6)
	for i := range out {
		out[i] = codeAlphabet[int(id[i])%len(codeAlphabet)]
	}
	return string(out)
}
