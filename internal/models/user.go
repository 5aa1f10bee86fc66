package models

import "time"

// User represents any platform account: students, teachers and admins.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleStudent can submit quizzes and track progress.
	RoleStudent = "student"
	// RoleTeacher authors courses and grades submissions.
	RoleTeacher = "teacher"
	// RoleAdmin has unrestricted platform access.
	RoleAdmin = "admin"
)

// DisplayName returns the name suitable for certificates, falling back to email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
