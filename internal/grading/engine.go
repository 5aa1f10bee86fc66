// Package grading holds the pure scoring logic shared by the submission and
// manual-grading services. Nothing here touches storage; same quiz and
// answers in, same result out.
package grading

import (
	"errors"
	"fmt"
	"math"

	"github.com/lumenlearn/lumen-api/internal/models"
)

// ErrUnknownQuestionType is returned when a question carries a type the
// engine does not know how to grade.
var ErrUnknownQuestionType = errors.New("unknown question type")

// RawAnswer is the student's answer to one question as received on submit.
// Exactly one field is meaningful depending on the question type.
type RawAnswer struct {
	OptionID *uint  `json:"option_id"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
}

// AnswerDraft is the engine's per-question output, persisted as a
// SubmissionAnswer. Points is nil for answers that wait on a teacher.
type AnswerDraft struct {
	QuestionID       uint
	SelectedOptionID *uint
	AnswerText       string
	FileURL          string
	Points           *int
}

// Result aggregates the auto-graded portion of a submission and the point
// mass still owed to manual grading.
type Result struct {
	Answers         []AnswerDraft
	AutoPoints      int
	AutoMaxPoints   int
	ManualMaxPoints int
}

// NeedsManualGrading reports whether any answer still waits on a teacher.
func (r Result) NeedsManualGrading() bool {
	return r.ManualMaxPoints > 0
}

// Grade scores every question of the quiz against the raw answers. A missing
// entry in answers counts as "no answer", never an error. CHOICE questions
// with no option flagged correct earn zero for any selection.
func Grade(questions []models.Question, answers map[uint]RawAnswer) (Result, error) {
	result := Result{Answers: make([]AnswerDraft, 0, len(questions))}

	for _, question := range questions {
		raw := answers[question.ID]

		switch question.Type {
		case models.QuestionTypeChoice:
			earned := 0
			correct := question.CorrectOption()
			if correct != nil && raw.OptionID != nil && *raw.OptionID == correct.ID {
				earned = question.Points
			}
			points := earned
			result.AutoPoints += earned
			result.AutoMaxPoints += question.Points
			result.Answers = append(result.Answers, AnswerDraft{
				QuestionID:       question.ID,
				SelectedOptionID: raw.OptionID,
				Points:           &points,
			})

		case models.QuestionTypeText:
			result.ManualMaxPoints += question.Points
			result.Answers = append(result.Answers, AnswerDraft{
				QuestionID: question.ID,
				AnswerText: raw.Text,
			})

		case models.QuestionTypeFile:
			result.ManualMaxPoints += question.Points
			result.Answers = append(result.Answers, AnswerDraft{
				QuestionID: question.ID,
				FileURL:    raw.FileURL,
			})

		default:
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, question.Type)
		}
	}

	return result, nil
}

// Percent converts earned/max points into an integer percentage, rounding
// half away from zero. A zero maximum yields 0, never a division error.
func Percent(earned, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(float64(earned) / float64(max) * 100))
}

// InitialState decides a fresh submission's status and score. Any pending
// manual points block a final score, no matter how the CHOICE portion went.
func InitialState(result Result) (status string, score *int) {
	if result.NeedsManualGrading() {
		return models.SubmissionStatusPending, nil
	}
	percent := Percent(result.AutoPoints, result.AutoMaxPoints)
	return models.SubmissionStatusGraded, &percent
}

// FinalScore recomputes a submission's percentage from its full answer set
// after manual grades are recorded. Answers still carrying nil points count
// as zero; the denominator spans every question, CHOICE included.
func FinalScore(answers []models.SubmissionAnswer) int {
	earned := 0
	total := 0
	for _, answer := range answers {
		total += answer.Question.Points
		if answer.Points != nil {
			earned += *answer.Points
		}
	}
	return Percent(earned, total)
}
