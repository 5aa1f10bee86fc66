package dto

import (
	"time"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// EnrollmentResponse confirms a student's enrollment in a course.
type EnrollmentResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts an enrollment model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		CourseTitle: model.Course.Title,
		CreatedAt:   model.CreatedAt,
	}
}
