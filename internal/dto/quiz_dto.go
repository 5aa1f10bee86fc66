package dto

import (
	"github.com/lumenlearn/lumen-api/internal/models"
)

// QuizCreateRequest describes the payload for authoring a quiz on a lesson.
type QuizCreateRequest struct {
	Title     string                `json:"title" validate:"required,min=1,max=255"`
	Duration  *int                  `json:"duration" validate:"omitempty,gt=0"`
	Questions []QuizQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// QuizQuestionRequest describes a single authored question. Options and
// CorrectOption only apply to CHOICE questions.
type QuizQuestionRequest struct {
	Text          string   `json:"text" validate:"required,min=1"`
	Type          string   `json:"type" validate:"required,oneof=CHOICE TEXT FILE"`
	Points        int      `json:"points" validate:"required,gt=0"`
	Options       []string `json:"options" validate:"omitempty,min=2,dive,min=1"`
	CorrectOption *int     `json:"correct_option" validate:"omitempty,gte=0"`
}

// QuizResponse is the quiz view returned to clients. Correctness flags are
// omitted unless the viewer authored the course.
type QuizResponse struct {
	ID        uint               `json:"id"`
	LessonID  uint               `json:"lesson_id"`
	Title     string             `json:"title"`
	Duration  *int               `json:"duration"`
	Questions []QuestionResponse `json:"questions"`
}

// QuestionResponse serializes one question inside a quiz view.
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Type    string           `json:"type"`
	Points  int              `json:"points"`
	Options []OptionResponse `json:"options,omitempty"`
}

// OptionResponse serializes a CHOICE option. IsCorrect is only populated in
// the author view.
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// NewQuizResponse converts a quiz model into a DTO. When includeCorrect is
// false the correctness flags are stripped so students cannot cheat by
// inspecting the payload.
func NewQuizResponse(quiz models.Quiz, includeCorrect bool) QuizResponse {
	response := QuizResponse{
		ID:        quiz.ID,
		LessonID:  quiz.LessonID,
		Title:     quiz.Title,
		Duration:  quiz.Duration,
		Questions: make([]QuestionResponse, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		questionResponse := QuestionResponse{
			ID:     question.ID,
			Text:   question.Text,
			Type:   question.Type,
			Points: question.Points,
		}
		for _, option := range question.Options {
			optionResponse := OptionResponse{ID: option.ID, Text: option.Text}
			if includeCorrect {
				isCorrect := option.IsCorrect
				optionResponse.IsCorrect = &isCorrect
			}
			questionResponse.Options = append(questionResponse.Options, optionResponse)
		}
		response.Questions = append(response.Questions, questionResponse)
	}

	return response
}
