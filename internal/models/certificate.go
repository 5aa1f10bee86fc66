package models

import "time"

// Certificate proves 100% course completion. At most one exists per
// (user, course); the unique index is the concurrency guard, not the
// application-level existence check. StudentName and CourseTitle are
// snapshotted at issuance and survive later renames.
type Certificate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SerialNo    string    `gorm:"size:64;uniqueIndex;not null" json:"serial_no"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"user_id"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"course_id"`
	StudentName string    `gorm:"size:255;not null" json:"student_name"`
	CourseTitle string    `gorm:"size:255;not null" json:"course_title"`
	IssuedAt    time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt   time.Time `json:"created_at"`
}
