package utils

import (
	"testing"
	"time"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, qType string, points float64, options, correct []string) models.QuizQuestion {
	q := models.QuizQuestion{
		QuestionType:   qType,
		Points:         points,
		Options:        options,
		CorrectAnswers: correct,
	}
	q.ID = id
	return q
}

func TestGradeQuestion(t *testing.T) {
	mc := question(1, models.QuestionMultipleChoice, 1, []string{"Go", "Rust", "C"}, []string{"Go"})
	tf := question(2, models.QuestionTrueFalse, 1, []string{"true", "false"}, []string{"false"})
	ms := question(3, models.QuestionMultipleSelect, 2, []string{"a", "b", "c"}, []string{"a", "c"})
	sa := question(4, models.QuestionShortAnswer, 1, nil, []string{"goroutine", "go routine"})

	tests := []struct {
		name  string
		q     models.QuizQuestion
		given []string
		want  bool
	}{
		{"choice exact", mc, []string{"Go"}, true},
		{"choice case and spaces", mc, []string{"  go "}, true},
		{"choice wrong", mc, []string{"Rust"}, false},
		{"choice two answers", mc, []string{"Go", "Rust"}, false},
		{"choice empty", mc, nil, false},
		{"true false", tf, []string{"FALSE"}, true},
		{"true false wrong", tf, []string{"true"}, false},
		{"select all", ms, []string{"c", "A"}, true},
		{"select partial", ms, []string{"a"}, false},
		{"select extra", ms, []string{"a", "b", "c"}, false},
		{"short any accepted", sa, []string{"Go Routine"}, true},
		{"short wrong", sa, []string{"thread"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeQuestion(tt.q, tt.given))
		})
	}
}

func TestGradeAttempt(t *testing.T) {
	questions := []models.QuizQuestion{
		question(1, models.QuestionMultipleChoice, 1, []string{"x", "y"}, []string{"x"}),
		question(2, models.QuestionMultipleSelect, 2, []string{"a", "b", "c"}, []string{"a", "b"}),
		question(3, models.QuestionShortAnswer, 1, nil, []string{"paris"}),
	}

	result := GradeAttempt(questions, map[string][]string{
		"1": {"x"},
		"2": {"a"},
		"3": {"Paris"},
	}, 60)

	assert.Equal(t, 2.0, result.Score)
	assert.Equal(t, 4.0, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.Passed)
	assert.Equal(t, map[uint]bool{1: true, 2: false, 3: true}, result.Correct)

	result = GradeAttempt(questions, map[string][]string{"1": {"x"}, "2": {"b", "a"}, "3": {"paris"}}, 60)
	assert.Equal(t, 100.0, result.Percentage)
	assert.True(t, result.Passed)
}

func TestGradeAttemptWithoutPoints(t *testing.T) {
	result := GradeAttempt(nil, nil, 0)
	assert.Zero(t, result.Percentage)
	assert.False(t, result.Passed)
}

func TestAttemptDeadline(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, ok := AttemptDeadline(start, 0, 30)
	assert.False(t, ok)

	deadline, ok := AttemptDeadline(start, 10, 30)
	require.True(t, ok)
	assert.Equal(t, start.Add(10*time.Minute+30*time.Second), deadline)
}

func TestSuspicionChecks(t *testing.T) {
	start := time.Now()

	flagged, reason := CompletedTooQuickly(start, start.Add(5*time.Second), 5, 2)
	assert.True(t, flagged)
	assert.Contains(t, reason, "completed 5 questions")

	flagged, _ = CompletedTooQuickly(start, start.Add(10*time.Second), 5, 2)
	assert.False(t, flagged)

	flagged, _ = TooManyTabSwitches(2, 3)
	assert.False(t, flagged)
	flagged, reason = TooManyTabSwitches(3, 3)
	assert.True(t, flagged)
	assert.Equal(t, "switched tabs 3 times (limit 3)", reason)

	assert.Equal(t, "a", AppendReason("", "a"))
	assert.Equal(t, "a; b", AppendReason("a", "b"))
	assert.Equal(t, "a; b", AppendReason("a; b", "b"))
}

func TestCheckQuestionShape(t *testing.T) {
	assert.Empty(t, CheckQuestionShape(models.QuestionMultipleChoice, []string{"a", "b"}, []string{"a"}))
	assert.Empty(t, CheckQuestionShape(models.QuestionTrueFalse, []string{"true", "false"}, []string{"true"}))
	assert.Empty(t, CheckQuestionShape(models.QuestionMultipleSelect, []string{"a", "b", "c"}, []string{"a", "c"}))
	assert.Empty(t, CheckQuestionShape(models.QuestionShortAnswer, nil, []string{"anything"}))

	assert.Contains(t, CheckQuestionShape(models.QuestionMultipleChoice, []string{"a"}, []string{"a"}), "options")
	assert.Contains(t, CheckQuestionShape(models.QuestionMultipleChoice, []string{"a", "b"}, []string{"a", "b"}), "correct_answers")
	assert.Contains(t, CheckQuestionShape(models.QuestionMultipleChoice, []string{"a", "b"}, []string{"z"}), "correct_answers")
	assert.Contains(t, CheckQuestionShape(models.QuestionTrueFalse, []string{"yes", "no"}, []string{"yes"}), "options")
	assert.Contains(t, CheckQuestionShape(models.QuestionShortAnswer, nil, nil), "correct_answers")
	assert.Contains(t, CheckQuestionShape("ESSAY", []string{"a", "b"}, []string{"a"}), "question_type")
}
