package models

import "time"

// Quiz is a gradable assessment attached to exactly one lesson.
type Quiz struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	LessonID  uint       `gorm:"not null;uniqueIndex" json:"lesson_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Duration  *int       `json:"duration"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Question types. CHOICE questions carry options and are auto-graded;
// TEXT and FILE answers wait for a teacher.
const (
	QuestionTypeChoice = "CHOICE"
	QuestionTypeText   = "TEXT"
	QuestionTypeFile   = "FILE"
)

// Question is one gradable unit of a quiz.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Points    int       `gorm:"not null" json:"points"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Option is a selectable answer for a CHOICE question.
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsManuallyGraded reports whether the question needs a teacher to assign points.
func (q Question) IsManuallyGraded() bool {
	return q.Type == QuestionTypeText || q.Type == QuestionTypeFile
}

// CorrectOption returns the first option flagged correct, or nil when the
// author marked none. Grading fails closed in that case.
func (q Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
