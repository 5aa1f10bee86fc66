package dto

import (
	"time"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// ProgressResponse reflects one lesson's completion state after a toggle.
type ProgressResponse struct {
	LessonID    uint       `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewProgressResponse converts a progress row into a DTO.
func NewProgressResponse(model models.Progress) ProgressResponse {
	return ProgressResponse{
		LessonID:    model.LessonID,
		Completed:   model.Completed,
		CompletedAt: model.CompletedAt,
	}
}

// CourseProgressResponse is the derived completion aggregate for one
// enrolled course. It is recomputed on read, never persisted.
type CourseProgressResponse struct {
	CourseID         uint   `json:"course_id"`
	CourseTitle      string `json:"course_title"`
	CompletedLessons int    `json:"completed_lessons"`
	TotalLessons     int    `json:"total_lessons"`
	ProgressPercent  int    `json:"progress_percent"`
}
