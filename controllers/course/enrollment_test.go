package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	"lms/testutil"
	"lms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollAndDrop(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	token := testutil.Token(t, student)
	path := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	resp, env := testutil.Request(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var enrollment models.Enrollment
	testutil.Decode(t, env, &enrollment)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)

	resp, env = testutil.Request(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Already enrolled in this course!", env.Message)

	resp, _ = testutil.Request(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Re-enrolling reactivates the same row
	resp, env = testutil.Request(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var again models.Enrollment
	testutil.Decode(t, env, &again)
	assert.Equal(t, enrollment.ID, again.ID)
	assert.Equal(t, models.EnrollmentActive, again.Status)

	var rows int64
	database.Database.Db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/enrollments/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
}

func TestEnrollRejections(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	first := testutil.CreateUser(t, models.RoleStudent, "first@example.com")
	second := testutil.CreateUser(t, models.RoleStudent, "second@example.com")

	draft := testutil.CreateCourse(t, instructor.ID, models.CourseDraft, 0)
	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", draft.ID), testutil.Token(t, first), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Course is not open for enrollment!", env.Message)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/courses/9999/enroll", testutil.Token(t, first), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", draft.ID), testutil.Token(t, instructor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A completed enrollment still holds its seat
	single := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 1)
	testutil.Enroll(t, first.ID, single.ID, models.EnrollmentCompleted)
	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", single.ID), testutil.Token(t, second), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Course is full", env.Message)
}

func TestDroppedSeatIsReleased(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	first := testutil.CreateUser(t, models.RoleStudent, "first@example.com")
	second := testutil.CreateUser(t, models.RoleStudent, "second@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 1)
	path := fmt.Sprintf("/api/courses/%d/enroll", course.ID)

	resp, _ := testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, first), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, second), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodDelete, path, testutil.Token(t, first), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodPost, path, testutil.Token(t, second), nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCertificateClaimVerifyRevoke(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	enrollment := testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	token := testutil.Token(t, student)
	claimPath := fmt.Sprintf("/api/courses/%d/certificate", course.ID)

	resp, _ := testutil.Request(t, app, http.MethodPost, claimPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, database.Database.Db.Model(enrollment).Update("status", models.EnrollmentCompleted).Error)

	resp, env := testutil.Request(t, app, http.MethodPost, claimPath, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var cert models.Certificate
	testutil.Decode(t, env, &cert)
	assert.NotEmpty(t, cert.CertificateNumber)
	assert.Len(t, cert.VerificationCode, 36)

	// Claiming again returns the same certificate
	resp, env = testutil.Request(t, app, http.MethodPost, claimPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var same models.Certificate
	testutil.Decode(t, env, &same)
	assert.Equal(t, cert.ID, same.ID)

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/certificates/verify/"+cert.VerificationCode, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verified struct {
		HolderName string `json:"holder_name"`
		IsValid    bool   `json:"is_valid"`
	}
	testutil.Decode(t, env, &verified)
	assert.Equal(t, student.Name, verified.HolderName)
	assert.True(t, verified.IsValid)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/certificates/verify/not-a-code", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	revokePath := fmt.Sprintf("/api/certificates/%d/revoke", cert.ID)
	resp, _ = testutil.Request(t, app, http.MethodPost, revokePath, testutil.Token(t, instructor), map[string]string{"reason": "Plagiarism"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, revokePath, testutil.Token(t, admin), map[string]string{"reason": "Plagiarism"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodPost, revokePath, testutil.Token(t, admin), map[string]string{"reason": "Plagiarism"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	_, env = testutil.Request(t, app, http.MethodGet, "/api/certificates/verify/"+cert.VerificationCode, "", nil)
	verified.IsValid = true
	testutil.Decode(t, env, &verified)
	assert.False(t, verified.IsValid)

	resp, _ = testutil.Request(t, app, http.MethodPost, claimPath, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOneEnrollmentAndCertificatePerCourse(t *testing.T) {
	testutil.Setup(t)
	db := database.Database.Db
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	now := time.Now()

	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	err := db.Create(&models.Enrollment{
		UserID: student.ID, CourseID: course.ID, Status: models.EnrollmentActive, EnrolledAt: now,
	}).Error
	assert.True(t, utils.IsDuplicateKey(err), "second enrollment inserted: %v", err)

	certificate := func() error {
		return db.Create(&models.Certificate{
			UserID:            student.ID,
			CourseID:          course.ID,
			CertificateNumber: utils.GenerateCertificateNumber(now),
			VerificationCode:  utils.GenerateVerificationCode(),
			IssuedAt:          now,
		}).Error
	}
	require.NoError(t, certificate())
	err = certificate()
	assert.True(t, utils.IsDuplicateKey(err), "second certificate inserted: %v", err)

	var rows int64
	db.Model(&models.Certificate{}).Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}
