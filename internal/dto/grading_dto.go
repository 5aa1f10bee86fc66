package dto

// AnswerGradeRequest carries a teacher's points and feedback for one
// manually-graded answer. CHOICE answers are not accepted here; their points
// were fixed at submit time.
type AnswerGradeRequest struct {
	AnswerID uint   `json:"answer_id" validate:"required,gt=0"`
	Points   int    `json:"points" validate:"gte=0"`
	Feedback string `json:"feedback" validate:"omitempty,max=4000"`
}

// GradeSubmissionRequest is the manual-grading payload for a submission.
type GradeSubmissionRequest struct {
	AnswerGrades    []AnswerGradeRequest `json:"answer_grades" validate:"required,min=1,dive"`
	OverallFeedback string               `json:"overall_feedback" validate:"omitempty,max=4000"`
}
