package assignmentController_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	assignmentController "lms/controllers/assignment"
	"lms/database"
	"lms/models"
	"lms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAssignment(t *testing.T, courseID uint, due time.Time, allowLate bool, penalty float64) *models.Assignment {
	t.Helper()
	assignment := &models.Assignment{
		CourseID:    courseID,
		Title:       "Essay",
		DueDate:     due,
		MaxScore:    100,
		AllowLate:   allowLate,
		LatePenalty: penalty,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(assignment).Error)
	return assignment
}

func TestLatePenaltyScore(t *testing.T) {
	assert.Equal(t, 80.0, assignmentController.LatePenaltyScore(80, false, 25))
	assert.Equal(t, 60.0, assignmentController.LatePenaltyScore(80, true, 25))
	assert.Equal(t, 80.0, assignmentController.LatePenaltyScore(80, true, 0))
	assert.Equal(t, 0.0, assignmentController.LatePenaltyScore(80, true, 100))
	assert.Equal(t, 66.67, assignmentController.LatePenaltyScore(100, true, 33.333))
}

func TestCreateAssignment(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	other := testutil.CreateUser(t, models.RoleInstructor, "other@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	path := fmt.Sprintf("/api/courses/%d/assignments", course.ID)
	body := map[string]interface{}{
		"title": "Lab report", "due_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"max_score": 50, "is_published": true,
	}

	resp, env := testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, instructor), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var assignment models.Assignment
	testutil.Decode(t, env, &assignment)
	assert.Equal(t, course.ID, assignment.CourseID)
	assert.Equal(t, 50.0, assignment.MaxScore)

	resp, _ = testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, other), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, instructor), map[string]interface{}{"title": "No due date", "max_score": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitAndGrade(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	outsider := testutil.CreateUser(t, models.RoleStudent, "outsider@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	assignment := createAssignment(t, course.ID, time.Now().Add(24*time.Hour), false, 0)
	token := testutil.Token(t, student)
	submitPath := fmt.Sprintf("/api/assignments/%d/submit", assignment.ID)

	resp, _ := testutil.Request(t, app, http.MethodPost, submitPath, testutil.Token(t, outsider), map[string]string{"content": "Mine"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, submitPath, token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodPost, submitPath, token, map[string]string{"content": "First draft"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var submission models.Submission
	testutil.Decode(t, env, &submission)
	assert.False(t, submission.IsLate)

	// Resubmitting before grading replaces the content
	resp, env = testutil.Request(t, app, http.MethodPost, submitPath, token, map[string]string{"content": "Final draft"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var replaced models.Submission
	testutil.Decode(t, env, &replaced)
	assert.Equal(t, submission.ID, replaced.ID)
	assert.Equal(t, "Final draft", replaced.Content)

	gradePath := fmt.Sprintf("/api/submissions/%d/grade", submission.ID)
	teacherToken := testutil.Token(t, instructor)
	resp, _ = testutil.Request(t, app, http.MethodPost, gradePath, teacherToken, map[string]interface{}{"score": 150})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodPost, gradePath, teacherToken, map[string]interface{}{"score": 88, "feedback": "Well argued"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var graded models.Submission
	testutil.Decode(t, env, &graded)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 88.0, *graded.Score)
	assert.Equal(t, models.SubmissionGraded, graded.Status)

	resp, _ = testutil.Request(t, app, http.MethodPost, submitPath, token, map[string]string{"content": "Too late to change"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var notifications int64
	database.Database.Db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", student.ID, models.NotifyGrade).Count(&notifications)
	assert.EqualValues(t, 1, notifications)
}

func TestLateSubmissions(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	token := testutil.Token(t, student)

	closed := createAssignment(t, course.ID, time.Now().Add(-time.Hour), false, 0)
	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/assignments/%d/submit", closed.ID), token, map[string]string{"content": "Sorry"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "The deadline for this assignment has passed!", env.Message)

	open := createAssignment(t, course.ID, time.Now().Add(-time.Hour), true, 25)
	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/assignments/%d/submit", open.ID), token, map[string]string{"content": "Late but done"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var submission models.Submission
	testutil.Decode(t, env, &submission)
	assert.True(t, submission.IsLate)

	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/submissions/%d/grade", submission.ID),
		testutil.Token(t, instructor), map[string]interface{}{"score": 80})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var graded models.Submission
	testutil.Decode(t, env, &graded)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 60.0, *graded.Score)
}

func TestSubmitFile(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	assignment := createAssignment(t, course.ID, time.Now().Add(time.Hour), false, 0)
	path := fmt.Sprintf("/api/assignments/%d/submit", assignment.ID)
	token := testutil.Token(t, student)

	resp, _ := testutil.Multipart(t, app, path, token, nil, "payload.exe", []byte("MZ"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, env := testutil.Multipart(t, app, path, token, map[string]string{"content": "See attached"}, "report.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var submission models.Submission
	testutil.Decode(t, env, &submission)
	assert.Contains(t, submission.FileURL, "/uploads/")
	assert.Equal(t, "See attached", submission.Content)

	resp, env = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/assignments/%d/submission", assignment.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine models.Submission
	testutil.Decode(t, env, &mine)
	assert.Equal(t, submission.ID, mine.ID)
}
