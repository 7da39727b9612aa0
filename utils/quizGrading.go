package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lms/models"
)

// Client events accepted while an attempt is in progress
const (
	ActivityTabSwitch  = "tab_switch"
	ActivityCopy       = "copy"
	ActivityPaste      = "paste"
	ActivityFocusLost  = "focus_lost"
	ActivityRightClick = "right_click"
)

var ActivityEvents = []string{ActivityTabSwitch, ActivityCopy, ActivityPaste, ActivityFocusLost, ActivityRightClick}

// GradeResult is the outcome of auto-grading one attempt
type GradeResult struct {
	Score      float64       `json:"score"`
	MaxScore   float64       `json:"max_score"`
	Percentage float64       `json:"percentage"`
	Passed     bool          `json:"passed"`
	Correct    map[uint]bool `json:"correct"`
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := normalizeAnswer(v); n != "" {
			set[n] = true
		}
	}
	return set
}

// GradeQuestion reports whether the given answers earn the question's points.
// MULTIPLE_SELECT is all-or-nothing; SHORT_ANSWER accepts any listed answer.
func GradeQuestion(q models.QuizQuestion, given []string) bool {
	answers := normalizedSet(given)
	correct := normalizedSet(q.CorrectAnswers)
	if len(answers) == 0 || len(correct) == 0 {
		return false
	}

	switch q.QuestionType {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		if len(answers) != 1 {
			return false
		}
		for a := range answers {
			return correct[a]
		}
	case models.QuestionMultipleSelect:
		if len(answers) != len(correct) {
			return false
		}
		for a := range answers {
			if !correct[a] {
				return false
			}
		}
		return true
	case models.QuestionShortAnswer:
		for a := range answers {
			if correct[a] {
				return true
			}
		}
	}
	return false
}

// GradeAttempt scores answers keyed by question id against the quiz questions
func GradeAttempt(questions []models.QuizQuestion, answers map[string][]string, passingScore float64) GradeResult {
	result := GradeResult{Correct: make(map[uint]bool, len(questions))}

	for _, q := range questions {
		result.MaxScore += q.Points
		ok := GradeQuestion(q, answers[strconv.FormatUint(uint64(q.ID), 10)])
		result.Correct[q.ID] = ok
		if ok {
			result.Score += q.Points
		}
	}

	if result.MaxScore > 0 {
		result.Percentage = math.Round(result.Score/result.MaxScore*10000) / 100
	}
	result.Passed = result.MaxScore > 0 && result.Percentage >= passingScore
	return result
}

// AttemptDeadline is the last instant a submission is accepted.
// ok is false when the quiz has no time limit.
func AttemptDeadline(startedAt time.Time, timeLimitMinutes, graceSeconds int) (deadline time.Time, ok bool) {
	if timeLimitMinutes <= 0 {
		return time.Time{}, false
	}
	return startedAt.
		Add(time.Duration(timeLimitMinutes) * time.Minute).
		Add(time.Duration(graceSeconds) * time.Second), true
}

// CompletedTooQuickly flags attempts finished faster than minSecondsPerQuestion allows
func CompletedTooQuickly(startedAt, submittedAt time.Time, questionCount, minSecondsPerQuestion int) (bool, string) {
	if questionCount == 0 || minSecondsPerQuestion <= 0 {
		return false, ""
	}
	minimum := time.Duration(questionCount*minSecondsPerQuestion) * time.Second
	elapsed := submittedAt.Sub(startedAt)
	if elapsed < minimum {
		return true, fmt.Sprintf("completed %d questions in %s (minimum %s)", questionCount, elapsed.Round(time.Second), minimum)
	}
	return false, ""
}

// TooManyTabSwitches flags attempts whose tab switch count reached the limit
func TooManyTabSwitches(tabSwitches, limit int) (bool, string) {
	if limit <= 0 || tabSwitches < limit {
		return false, ""
	}
	return true, fmt.Sprintf("switched tabs %d times (limit %d)", tabSwitches, limit)
}

// AppendReason joins suspicious reasons without duplicates
func AppendReason(existing, reason string) string {
	if reason == "" || strings.Contains(existing, reason) {
		return existing
	}
	if existing == "" {
		return reason
	}
	return existing + "; " + reason
}

// CheckQuestionShape validates options and correct answers for the question type.
// It returns a field → message map, empty when the question is well formed.
func CheckQuestionShape(questionType string, options, correct []string) map[string]string {
	errors := make(map[string]string)

	opts := normalizedSet(options)
	answers := normalizedSet(correct)

	if len(answers) == 0 {
		errors["correct_answers"] = "At least one correct answer is required!"
	}

	switch questionType {
	case models.QuestionTrueFalse:
		if len(opts) != 2 || !opts["true"] || !opts["false"] {
			errors["options"] = "True/false questions must have exactly the options true and false!"
		}
		if len(answers) != 1 {
			errors["correct_answers"] = "True/false questions need exactly one correct answer!"
		}
	case models.QuestionMultipleChoice, models.QuestionMultipleSelect:
		if len(opts) < 2 {
			errors["options"] = "At least two distinct options are required!"
		}
		if questionType == models.QuestionMultipleChoice && len(answers) > 1 {
			errors["correct_answers"] = "Multiple choice questions need exactly one correct answer!"
		}
	case models.QuestionShortAnswer:
		return errors
	default:
		errors["question_type"] = "Unknown question type!"
		return errors
	}

	if _, ok := errors["options"]; !ok {
		for a := range answers {
			if !opts[a] {
				errors["correct_answers"] = "Correct answers must be among the options!"
				break
			}
		}
	}
	return errors
}
