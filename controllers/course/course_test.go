package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"lms/database"
	"lms/models"
	"lms/testutil"
	"lms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog struct {
	Courses []models.Course `json:"courses"`
}

func TestCourseLifecycleAndVisibility(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	other := testutil.CreateUser(t, models.RoleInstructor, "other@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	teacherToken := testutil.Token(t, instructor)
	studentToken := testutil.Token(t, student)

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/courses", teacherToken, map[string]interface{}{
		"title": "Distributed Systems", "code": "CS-440", "description": "Consensus and replication", "category": "cs",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var course models.Course
	testutil.Decode(t, env, &course)
	assert.Equal(t, instructor.ID, course.InstructorID)
	assert.Equal(t, models.CourseDraft, course.Status)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/courses", teacherToken, map[string]interface{}{
		"title": "Duplicate", "code": "CS-440", "description": "Same code again",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/courses", studentToken, map[string]interface{}{
		"title": "Nope", "description": "Students cannot create",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	path := fmt.Sprintf("/api/courses/%d", course.ID)

	// Drafts are invisible to students
	_, env = testutil.Request(t, app, http.MethodGet, "/api/courses", studentToken, nil)
	var list catalog
	testutil.Decode(t, env, &list)
	assert.Empty(t, list.Courses)
	resp, _ = testutil.Request(t, app, http.MethodGet, path, studentToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPut, path, testutil.Token(t, other), map[string]interface{}{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, path+"/publish", teacherToken, map[string]interface{}{"is_published": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, env = testutil.Request(t, app, http.MethodGet, "/api/courses?search=distributed", studentToken, nil)
	list = catalog{}
	testutil.Decode(t, env, &list)
	require.Len(t, list.Courses, 1)
	assert.True(t, list.Courses[0].IsPublished)

	resp, env = testutil.Request(t, app, http.MethodGet, path, studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details struct {
		IsManager  bool `json:"is_manager"`
		IsEnrolled bool `json:"is_enrolled"`
	}
	testutil.Decode(t, env, &details)
	assert.False(t, details.IsManager)
	assert.False(t, details.IsEnrolled)

	resp, _ = testutil.Request(t, app, http.MethodDelete, path, teacherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodGet, path, teacherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInstructorCatalogIncludesOwnDrafts(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	mine := testutil.CreateUser(t, models.RoleInstructor, "mine@example.com")
	theirs := testutil.CreateUser(t, models.RoleInstructor, "theirs@example.com")

	testutil.CreateCourse(t, mine.ID, models.CourseDraft, 0)
	testutil.CreateCourse(t, theirs.ID, models.CourseDraft, 0)
	testutil.CreateCourse(t, theirs.ID, models.CoursePublished, 0)

	_, env := testutil.Request(t, app, http.MethodGet, "/api/courses", testutil.Token(t, mine), nil)
	var list catalog
	testutil.Decode(t, env, &list)
	assert.Len(t, list.Courses, 2)

	_, env = testutil.Request(t, app, http.MethodGet, "/api/courses", testutil.Token(t, admin), nil)
	list = catalog{}
	testutil.Decode(t, env, &list)
	assert.Len(t, list.Courses, 3)

	_, env = testutil.Request(t, app, http.MethodGet, "/api/courses?status=published", testutil.Token(t, admin), nil)
	list = catalog{}
	testutil.Decode(t, env, &list)
	assert.Len(t, list.Courses, 1)

	resp, _ := testutil.Request(t, app, http.MethodGet, "/api/courses?status=BOGUS", testutil.Token(t, admin), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestModulesAndLessons(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	token := testutil.Token(t, instructor)

	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/modules", course.ID), token,
		map[string]interface{}{"title": "Week 1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var module models.Module
	testutil.Decode(t, env, &module)
	assert.Equal(t, 1, module.OrderIndex)

	lessonsPath := fmt.Sprintf("/api/modules/%d/lessons", module.ID)
	resp, _ = testutil.Request(t, app, http.MethodPost, lessonsPath, token, map[string]interface{}{
		"title": "Intro video", "content_type": "VIDEO",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodPost, lessonsPath, token, map[string]interface{}{
		"title": "Intro video", "content_type": "VIDEO", "media_url": "https://videos.example.com/1", "is_published": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = testutil.Request(t, app, http.MethodPost, lessonsPath, token, map[string]interface{}{
		"title": "Draft notes", "content_type": "TEXT", "content": "Work in progress",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Students must be enrolled and only see published lessons
	studentToken := testutil.Token(t, student)
	resp, _ = testutil.Request(t, app, http.MethodGet, lessonsPath, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	resp, env = testutil.Request(t, app, http.MethodGet, lessonsPath, studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lessons []models.Lesson
	testutil.Decode(t, env, &lessons)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Intro video", lessons[0].Title)

	_, env = testutil.Request(t, app, http.MethodGet, lessonsPath, token, nil)
	lessons = nil
	testutil.Decode(t, env, &lessons)
	assert.Len(t, lessons, 2)
}

func TestLessonCompletionCompletesCourse(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	first := testutil.CreateLesson(t, course.ID)
	second := testutil.CreateLesson(t, course.ID)
	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)
	token := testutil.Token(t, student)

	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", first.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var enrollment models.Enrollment
	testutil.Decode(t, env, &enrollment)
	assert.Equal(t, 50.0, enrollment.Progress)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)

	// Completing twice does not double count
	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", first.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.Decode(t, env, &enrollment)
	assert.Equal(t, 50.0, enrollment.Progress)

	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", second.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.Decode(t, env, &enrollment)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	var notifications int64
	database.Database.Db.Model(&models.Notification{}).
		Where("user_id = ? AND title = ?", student.ID, "Course completed").Count(&notifications)
	assert.EqualValues(t, 1, notifications)

	var audits int64
	database.Database.Db.Model(&models.AuditLog{}).
		Where("action = ? AND user_id = ?", utils.AuditLessonComplete, student.ID).Count(&audits)
	assert.EqualValues(t, 3, audits)

	resp, env = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/courses/%d/progress", course.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress struct {
		CompletedLessonIDs []uint `json:"completed_lesson_ids"`
	}
	testutil.Decode(t, env, &progress)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, progress.CompletedLessonIDs)
}

func TestCatalogCacheClearedOnCourseWrite(t *testing.T) {
	app := testutil.Setup(t)
	cache := testutil.WithCache(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	studentToken := testutil.Token(t, student)

	listTitles := func() []string {
		t.Helper()
		resp, env := testutil.Request(t, app, http.MethodGet, "/api/courses", studentToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
		var list catalog
		testutil.Decode(t, env, &list)
		titles := make([]string, 0, len(list.Courses))
		for _, c := range list.Courses {
			titles = append(titles, c.Title)
		}
		return titles
	}

	assert.Equal(t, []string{course.Title}, listTitles())
	assert.Len(t, cache.Keys(), 1)

	// Rows written behind the API stay hidden while the page is cached
	hidden := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	assert.Len(t, listTitles(), 1)

	resp, env := testutil.Request(t, app, http.MethodPut, fmt.Sprintf("/api/courses/%d", course.ID), testutil.Token(t, instructor),
		map[string]interface{}{"title": "Renamed Course"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Empty(t, cache.Keys())

	assert.ElementsMatch(t, []string{"Renamed Course", hidden.Title}, listTitles())

	// Staff queries are never cached
	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/courses", testutil.Token(t, instructor), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, cache.Keys(), 1)
}
