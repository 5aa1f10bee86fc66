package models

import "time"

// Submission is one student's attempt at a quiz. Attempts are unlimited;
// every submit creates a fresh row.
type Submission struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	QuizID    uint               `gorm:"not null;index" json:"quiz_id"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	Status    string             `gorm:"size:16;not null" json:"status"`
	Score     *int               `json:"score"`
	Feedback  string             `gorm:"type:text" json:"feedback"`
	GradedAt  *time.Time         `json:"graded_at"`
	Answers   []SubmissionAnswer `json:"answers"`
	Quiz      Quiz               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quiz"`
	User      User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

const (
	// SubmissionStatusPending means at least one answer awaits manual grading.
	SubmissionStatusPending = "PENDING"
	// SubmissionStatusGraded means the submission carries a final score.
	SubmissionStatusGraded = "GRADED"
)

// IsGraded reports whether the submission has reached its final state.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// SubmissionAnswer records the student's answer to a single question.
// Points stays nil until graded; CHOICE answers are scored at submit time.
type SubmissionAnswer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SubmissionID     uint      `gorm:"not null;index" json:"submission_id"`
	QuestionID       uint      `gorm:"not null;index" json:"question_id"`
	SelectedOptionID *uint     `json:"selected_option_id"`
	AnswerText       string    `gorm:"type:text" json:"answer_text"`
	FileURL          string    `gorm:"size:512" json:"file_url"`
	Points           *int      `json:"points"`
	Feedback         string    `gorm:"type:text" json:"feedback"`
	Question         Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"question"`
	CreatedAt        time.Time `json:"created_at"`
}
