package dto

import (
	"time"

	"github.com/lumenlearn/lumen-api/internal/grading"
	"github.com/lumenlearn/lumen-api/internal/models"
)

// SubmitQuizRequest carries the raw answer map keyed by question ID.
// Questions the student skipped may simply be absent.
type SubmitQuizRequest struct {
	Answers map[uint]grading.RawAnswer `json:"answers" validate:"required"`
}

// SubmitQuizResponse summarizes the outcome of a quiz attempt. Score is nil
// while any answer waits on manual grading.
type SubmitQuizResponse struct {
	SubmissionID       uint   `json:"submission_id"`
	Score              *int   `json:"score"`
	Status             string `json:"status"`
	NeedsManualGrading bool   `json:"needs_manual_grading"`
}

// SubmissionAnswerResponse serializes one persisted answer.
type SubmissionAnswerResponse struct {
	ID               uint             `json:"id"`
	QuestionID       uint             `json:"question_id"`
	SelectedOptionID *uint            `json:"selected_option_id"`
	AnswerText       string           `json:"answer_text"`
	FileURL          string           `json:"file_url"`
	Points           *int             `json:"points"`
	Feedback         string           `json:"feedback"`
	Question         QuestionResponse `json:"question"`
}

// SubmissionResponse is the full submission view for its owner or grader.
type SubmissionResponse struct {
	ID        uint                       `json:"id"`
	QuizID    uint                       `json:"quiz_id"`
	QuizTitle string                     `json:"quiz_title"`
	UserID    uint                       `json:"user_id"`
	Status    string                     `json:"status"`
	Score     *int                       `json:"score"`
	Feedback  string                     `json:"feedback"`
	GradedAt  *time.Time                 `json:"graded_at"`
	CreatedAt time.Time                  `json:"created_at"`
	Answers   []SubmissionAnswerResponse `json:"answers,omitempty"`
	Student   UserLite                   `json:"student"`
}

// UserLite summarizes a user without exposing full profile data.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO. Answers are
// included only when preloaded.
func NewSubmissionResponse(model models.Submission, includeCorrect bool) SubmissionResponse {
	response := SubmissionResponse{
		ID:        model.ID,
		QuizID:    model.QuizID,
		QuizTitle: model.Quiz.Title,
		UserID:    model.UserID,
		Status:    model.Status,
		Score:     model.Score,
		Feedback:  model.Feedback,
		GradedAt:  model.GradedAt,
		CreatedAt: model.CreatedAt,
		Student: UserLite{
			ID:    model.User.ID,
			Name:  model.User.Name,
			Email: model.User.Email,
		},
	}

	for _, answer := range model.Answers {
		answerResponse := SubmissionAnswerResponse{
			ID:               answer.ID,
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			AnswerText:       answer.AnswerText,
			FileURL:          answer.FileURL,
			Points:           answer.Points,
			Feedback:         answer.Feedback,
		}
		questionResponse := QuestionResponse{
			ID:     answer.Question.ID,
			Text:   answer.Question.Text,
			Type:   answer.Question.Type,
			Points: answer.Question.Points,
		}
		for _, option := range answer.Question.Options {
			optionResponse := OptionResponse{ID: option.ID, Text: option.Text}
			if includeCorrect {
				isCorrect := option.IsCorrect
				optionResponse.IsCorrect = &isCorrect
			}
			questionResponse.Options = append(questionResponse.Options, optionResponse)
		}
		answerResponse.Question = questionResponse
		response.Answers = append(response.Answers, answerResponse)
	}

	return response
}

// NewSubmissionResponseSlice converts a list of submissions without answers.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		item.Answers = nil
		responses = append(responses, NewSubmissionResponse(item, false))
	}
	return responses
}
