package dto

import (
	"time"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// CertificateResponse serializes an issued certificate. The student name and
// course title are the snapshots taken at issuance.
type CertificateResponse struct {
	ID          uint      `json:"id"`
	SerialNo    string    `json:"serial_no"`
	CourseID    uint      `json:"course_id"`
	StudentName string    `json:"student_name"`
	CourseTitle string    `json:"course_title"`
	IssuedAt    time.Time `json:"issued_at"`
}

// NewCertificateResponse converts a certificate model into a DTO.
func NewCertificateResponse(model models.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:          model.ID,
		SerialNo:    model.SerialNo,
		CourseID:    model.CourseID,
		StudentName: model.StudentName,
		CourseTitle: model.CourseTitle,
		IssuedAt:    model.IssuedAt,
	}
}

// NewCertificateResponseSlice converts a list of certificates.
func NewCertificateResponseSlice(items []models.Certificate) []CertificateResponse {
	responses := make([]CertificateResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewCertificateResponse(item))
	}
	return responses
}
