package quizValidator

import (
	"strings"
	"time"

	"lms/models"
	"lms/utils"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type QuizRequest struct {
	Title            string     `json:"title" validate:"required,min=3,max=200,safetext"`
	Description      string     `json:"description" validate:"max=5000"`
	ModuleID         *uint      `json:"module_id" validate:"omitempty,gt=0"`
	TimeLimitMinutes int        `json:"time_limit_minutes" validate:"min=0,max=1440"`
	MaxAttempts      int        `json:"max_attempts" validate:"min=0,max=100"`
	PassingScore     *float64   `json:"passing_score" validate:"omitempty,min=0,max=100"`
	ShuffleQuestions bool       `json:"shuffle_questions"`
	ShowResults      *bool      `json:"show_results"`
	IsPublished      bool       `json:"is_published"`
	AvailableFrom    *time.Time `json:"available_from"`
	AvailableUntil   *time.Time `json:"available_until"`
}

func (r *QuizRequest) Normalize() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return checkWindow(r.AvailableFrom, r.AvailableUntil)
}

type UpdateQuizRequest struct {
	Title            *string    `json:"title" validate:"omitempty,min=3,max=200,safetext"`
	Description      *string    `json:"description" validate:"omitempty,max=5000"`
	ModuleID         *uint      `json:"module_id" validate:"omitempty,gt=0"`
	TimeLimitMinutes *int       `json:"time_limit_minutes" validate:"omitempty,min=0,max=1440"`
	MaxAttempts      *int       `json:"max_attempts" validate:"omitempty,min=0,max=100"`
	PassingScore     *float64   `json:"passing_score" validate:"omitempty,min=0,max=100"`
	ShuffleQuestions *bool      `json:"shuffle_questions"`
	ShowResults      *bool      `json:"show_results"`
	IsPublished      *bool      `json:"is_published"`
	AvailableFrom    *time.Time `json:"available_from"`
	AvailableUntil   *time.Time `json:"available_until"`
}

func (r *UpdateQuizRequest) Normalize() map[string]string {
	return checkWindow(r.AvailableFrom, r.AvailableUntil)
}

func checkWindow(from, until *time.Time) map[string]string {
	if from != nil && until != nil && !until.After(*from) {
		return map[string]string{"available_until": "Availability end must be after its start!"}
	}
	return nil
}

type QuestionRequest struct {
	QuestionText   string   `json:"question_text" validate:"required,min=3,max=5000"`
	QuestionType   string   `json:"question_type" validate:"required,oneof=MULTIPLE_CHOICE MULTIPLE_SELECT TRUE_FALSE SHORT_ANSWER"`
	Options        []string `json:"options" validate:"omitempty,max=20,dive,required,max=500"`
	CorrectAnswers []string `json:"correct_answers" validate:"required,min=1,max=20,dive,required,max=500"`
	Points         *float64 `json:"points" validate:"omitempty,gt=0,lte=100"`
	OrderIndex     int      `json:"order_index" validate:"min=0"`
	Explanation    string   `json:"explanation" validate:"max=5000"`
}

func (r *QuestionRequest) Normalize() map[string]string {
	r.QuestionText = strings.TrimSpace(r.QuestionText)
	r.QuestionType = strings.ToUpper(strings.TrimSpace(r.QuestionType))
	if r.QuestionType == models.QuestionTrueFalse && len(r.Options) == 0 {
		r.Options = []string{"true", "false"}
	}
	if r.QuestionType == models.QuestionShortAnswer {
		r.Options = nil
	}
	if len(r.CorrectAnswers) == 0 {
		return nil
	}
	errs := utils.CheckQuestionShape(r.QuestionType, r.Options, r.CorrectAnswers)
	delete(errs, "question_type")
	return errs
}

// UpdateQuestionRequest is merged onto the stored question; the shape is checked after the merge
type UpdateQuestionRequest struct {
	QuestionText   *string  `json:"question_text" validate:"omitempty,min=3,max=5000"`
	QuestionType   *string  `json:"question_type" validate:"omitempty,oneof=MULTIPLE_CHOICE MULTIPLE_SELECT TRUE_FALSE SHORT_ANSWER"`
	Options        []string `json:"options" validate:"omitempty,max=20,dive,required,max=500"`
	CorrectAnswers []string `json:"correct_answers" validate:"omitempty,max=20,dive,required,max=500"`
	Points         *float64 `json:"points" validate:"omitempty,gt=0,lte=100"`
	OrderIndex     *int     `json:"order_index" validate:"omitempty,min=0"`
	Explanation    *string  `json:"explanation" validate:"omitempty,max=5000"`
}

func (r *UpdateQuestionRequest) Normalize() map[string]string {
	if r.QuestionType != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.QuestionType))
		r.QuestionType = &v
	}
	return nil
}

type ActivityRequest struct {
	Event string `json:"event" validate:"required,oneof=tab_switch copy paste focus_lost right_click"`
}

func (r *ActivityRequest) Normalize() map[string]string {
	r.Event = strings.ToLower(strings.TrimSpace(r.Event))
	return nil
}

type SubmitAttemptRequest struct {
	Answers map[string][]string `json:"answers" validate:"required"`
}

func CreateQuiz() fiber.Handler {
	return validators.ValidateBody[QuizRequest]("validatedQuiz")
}

func UpdateQuiz() fiber.Handler {
	return validators.ValidateBody[UpdateQuizRequest]("validatedQuizUpdate")
}

func CreateQuestion() fiber.Handler {
	return validators.ValidateBody[QuestionRequest]("validatedQuestion")
}

func UpdateQuestion() fiber.Handler {
	return validators.ValidateBody[UpdateQuestionRequest]("validatedQuestionUpdate")
}

func Activity() fiber.Handler {
	return validators.ValidateBody[ActivityRequest]("validatedActivity")
}

func SubmitAttempt() fiber.Handler {
	return validators.ValidateBody[SubmitAttemptRequest]("validatedAttempt")
}
