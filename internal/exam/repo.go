package exam

import (
	"context"
	"encoding/json"
)

type ListOpts struct {
	Q          string
	Limit      int
	Offset     int
	ViewerRole string // "student" | "admin"
	Deleted    bool   // admin-only: list soft-deleted exams instead
}

type CreateExamInput struct {
	Title           string          `json:"title" validate:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gt=0"`
	ModulesConfig   json.RawMessage `json:"modules_config"`
	AccessCode      string          `json:"access_code"`
	SecurityLevel   string          `json:"security_level"`
	TargetAudience  string          `json:"target_audience"`
	ClassroomID     string          `json:"assigned_classroom_id"`
}

// ExamPatch is the metadata portion of a structure save. Exam identity
// is already canonical, so it applies as a direct update.
type ExamPatch struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	Status        Status          `json:"status"`
	ModulesConfig json.RawMessage `json:"modules_config"`
	AccessCode    string          `json:"code"`
	Type          string          `json:"type"`
}

// SectionInput carries explicit intent: ID set means update that row,
// Ref set means insert a new row and remap the client placeholder.
// Exactly one of the two must be set.
type SectionInput struct {
	ID              string `json:"id,omitempty"`
	Ref             string `json:"ref,omitempty"`
	ModuleType      string `json:"module_type"`
	SectionOrder    int    `json:"section_order"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	AudioURL        string `json:"audio_url"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuestionInput references its section either by canonical SectionID
// or by the SectionRef of a SectionInput in the same save.
type QuestionInput struct {
	ID             string  `json:"id,omitempty"`
	Ref            string  `json:"ref,omitempty"`
	SectionID      string  `json:"section_id,omitempty"`
	SectionRef     string  `json:"section_ref,omitempty"`
	QuestionNumber int     `json:"question_number"`
	Text           string  `json:"question_text"`
	Type           string  `json:"question_type"`
	CorrectAnswer  string  `json:"correct_answer"`
	Points         float64 `json:"points"`
}

// StructureResult maps client placeholder refs to the canonical ids
// assigned in this save. Callers must carry these forward; resubmitting
// a placeholder creates a duplicate row.
type StructureResult struct {
	SectionIDs  map[string]string `json:"section_ids"`
	QuestionIDs map[string]string `json:"question_ids"`
}

type StatusPatch struct {
	Status         Status  `json:"status,omitempty"`
	SecurityLevel  string  `json:"security_level,omitempty"`
	TargetAudience string  `json:"target_audience,omitempty"`
	ClassroomID    *string `json:"assigned_classroom_id,omitempty"`
}

type SubmitInput struct {
	UserID    string
	Answers   map[string]string
	TimeSpent json.RawMessage
}

type DashboardStats struct {
	TotalStudents    int `json:"totalUsers"`
	ActiveExams      int `json:"activeExams"`
	TotalSubmissions int `json:"completedExams"`
}

type Store interface {
	CreateExam(ctx context.Context, in CreateExamInput, createdBy string) (Exam, error)
	GetExam(ctx context.Context, id, viewerRole string) (ExamView, error)
	ListExams(ctx context.Context, opts ListOpts) ([]Exam, error)
	SetExamStatus(ctx context.Context, id string, patch StatusPatch) (Exam, error)

	SaveStructure(ctx context.Context, examID string, patch ExamPatch, sections []SectionInput, questions []QuestionInput) (StructureResult, error)

	Submit(ctx context.Context, examID string, in SubmitInput) (Submission, error)

	RecordViolation(ctx context.Context, examID, userID, typ string, metadata json.RawMessage) (Violation, error)
	ListViolations(ctx context.Context, examID string) ([]Violation, error)

	DeleteExam(ctx context.Context, id string) error
	RestoreExam(ctx context.Context, id string) (Exam, error)
	PurgeExam(ctx context.Context, id string) error

	Stats(ctx context.Context) (DashboardStats, error)
}
