package exam

import "encoding/json"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

type Exam struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	ModulesConfig   json.RawMessage `json:"modules_config,omitempty"`
	Status          Status          `json:"status"`
	Type            string          `json:"type,omitempty"`
	AccessCode      string          `json:"access_code,omitempty"`
	SecurityLevel   string          `json:"security_level,omitempty"`
	TargetAudience  string          `json:"target_audience,omitempty"`
	ClassroomID     string          `json:"assigned_classroom_id,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       int64           `json:"created_at,omitempty"`
}

type Section struct {
	ID              string `json:"id"`
	ExamID          string `json:"exam_id"`
	ModuleType      string `json:"module_type"`
	SectionOrder    int    `json:"section_order"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	AudioURL        string `json:"audio_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type Question struct {
	ID             string  `json:"id"`
	ExamID         string  `json:"exam_id"`
	SectionID      string  `json:"section_id"`
	QuestionNumber int     `json:"question_number"`
	Text           string  `json:"question_text"`
	Type           string  `json:"question_type"`
	CorrectAnswer  string  `json:"correct_answer,omitempty"` // stripped for students
	Points         float64 `json:"points"`
}

type Submission struct {
	ID             string          `json:"id"`
	ExamID         string          `json:"exam_id"`
	UserID         string          `json:"user_id"`
	Status         string          `json:"status"` // submitted|graded
	TotalCorrect   float64         `json:"total_correct"`
	TotalQuestions int             `json:"total_questions"`
	BandScore      float64         `json:"overall_band_score"`
	TimeSpent      json.RawMessage `json:"time_spent_by_module,omitempty"`
	SubmittedAt    int64           `json:"submitted_at"`
}

type Answer struct {
	ID           string  `json:"id"`
	SubmissionID string  `json:"submission_id"`
	QuestionID   string  `json:"question_id"`
	UserAnswer   string  `json:"user_answer"`
	IsCorrect    bool    `json:"is_correct"`
	Score        float64 `json:"score"`
}

type Violation struct {
	ID         string          `json:"id"`
	ExamID     string          `json:"exam_id"`
	UserID     string          `json:"user_id"`
	Type       string          `json:"violation_type"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	OccurredAt int64           `json:"occurred_at"`
}

// ExamView is the role-filtered fetch result: the exam with its full
// ordered structure. CorrectAnswer is blanked for students.
type ExamView struct {
	Exam
	Sections  []Section  `json:"sections"`
	Questions []Question `json:"questions"`
}
