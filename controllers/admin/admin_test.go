package adminController_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/models"
	"lms/testutil"
	"lms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app := testutil.Setup(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found!", env.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	app := testutil.Setup(t)

	resp, env := testutil.Request(t, app, http.MethodPatch, "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.False(t, env.Status)
	assert.Equal(t, "Method not allowed!", env.Message)

	resp, _ = testutil.Request(t, app, http.MethodDelete, "/api/settings/public", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSettings(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	token := testutil.Token(t, admin)

	resp, env := testutil.Request(t, app, http.MethodGet, "/api/settings/public", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var public map[string]string
	testutil.Decode(t, env, &public)
	assert.Equal(t, "LMS", public[models.SettingSiteName])
	assert.NotContains(t, public, models.SettingMaxTabSwitches)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/settings", testutil.Token(t, student), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPut, "/api/settings", token, map[string]interface{}{
		"settings": map[string]string{"favourite_colour": "blue"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPut, "/api/settings", token, map[string]interface{}{
		"settings": map[string]string{models.SettingMaxTabSwitches: "-1"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodPut, "/api/settings", token, map[string]interface{}{
		"settings": map[string]string{models.SettingSiteName: "Campus", models.SettingMaxTabSwitches: "5"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var updated []models.Setting
	testutil.Decode(t, env, &updated)
	require.Len(t, updated, 2)
	for _, s := range updated {
		require.NotNil(t, s.UpdatedBy)
		assert.Equal(t, admin.ID, *s.UpdatedBy)
	}

	assert.Equal(t, 5, utils.GetSettingInt(models.SettingMaxTabSwitches, 3))

	_, env = testutil.Request(t, app, http.MethodGet, "/api/settings/public", "", nil)
	public = nil
	testutil.Decode(t, env, &public)
	assert.Equal(t, "Campus", public[models.SettingSiteName])

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Setting
	testutil.Decode(t, env, &all)
	assert.Len(t, all, len(models.DefaultSettings))
}

func TestAuditLogs(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	token := testutil.Token(t, admin)

	utils.RecordAuditFor(nil, &admin.ID, utils.AuditCourseCreate, "course", 1, map[string]string{"title": "One"})
	utils.RecordAuditFor(nil, &admin.ID, utils.AuditCourseCreate, "course", 2, map[string]string{"title": "Two"})
	utils.RecordAuditFor(nil, nil, utils.AuditBroadcast, "notification", 0, nil)

	type logPage struct {
		Logs []models.AuditLog `json:"logs"`
	}

	resp, env := testutil.Request(t, app, http.MethodGet, "/api/audit-logs?action="+utils.AuditCourseCreate, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var page logPage
	testutil.Decode(t, env, &page)
	require.Len(t, page.Logs, 2)
	assert.EqualValues(t, 2, page.Logs[0].EntityID)

	_, env = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/audit-logs?user_id=%d", admin.ID), token, nil)
	page = logPage{}
	testutil.Decode(t, env, &page)
	assert.Len(t, page.Logs, 2)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/audit-logs?user_id=abc", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/audit-logs?from=yesterday", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBackups(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	token := testutil.Token(t, admin)

	resp, _ := testutil.Request(t, app, http.MethodPost, "/api/backup", testutil.Token(t, instructor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/backup", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var backup utils.BackupFile
	testutil.Decode(t, env, &backup)
	assert.Positive(t, backup.Size)

	_, env = testutil.Request(t, app, http.MethodGet, "/api/backup", token, nil)
	var files []utils.BackupFile
	testutil.Decode(t, env, &files)
	require.Len(t, files, 1)
	assert.Equal(t, backup.Name, files[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/backup/"+backup.Name, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, raw.StatusCode)
	body, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"tables"`)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/backup/secrets.txt", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/backup/backup-20200101-000000-deadbeef.json", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalytics(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	first := testutil.CreateUser(t, models.RoleStudent, "first@example.com")
	second := testutil.CreateUser(t, models.RoleStudent, "second@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, first.ID, course.ID, models.EnrollmentCompleted)
	testutil.Enroll(t, second.ID, course.ID, models.EnrollmentActive)

	resp, env := testutil.Request(t, app, http.MethodGet, "/api/analytics/dashboard", testutil.Token(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var dashboard struct {
		UsersByRole map[string]int64 `json:"users_by_role"`
		Enrollments int64            `json:"enrollments"`
		Completions int64            `json:"completions"`
	}
	testutil.Decode(t, env, &dashboard)
	assert.EqualValues(t, 2, dashboard.UsersByRole[models.RoleStudent])
	assert.EqualValues(t, 1, dashboard.UsersByRole[models.RoleAdmin])
	assert.EqualValues(t, 2, dashboard.Enrollments)
	assert.EqualValues(t, 1, dashboard.Completions)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/analytics/dashboard", testutil.Token(t, instructor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/analytics/courses/%d", course.ID), testutil.Token(t, instructor), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var courseStats struct {
		Enrolled       int64   `json:"enrolled"`
		Completed      int64   `json:"completed"`
		CompletionRate float64 `json:"completion_rate"`
	}
	testutil.Decode(t, env, &courseStats)
	assert.EqualValues(t, 2, courseStats.Enrolled)
	assert.EqualValues(t, 1, courseStats.Completed)
	assert.Equal(t, 50.0, courseStats.CompletionRate)

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/analytics/me", testutil.Token(t, first), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine struct {
		Enrollments      int64 `json:"enrollments"`
		CompletedCourses int64 `json:"completed_courses"`
	}
	testutil.Decode(t, env, &mine)
	assert.EqualValues(t, 1, mine.Enrollments)
	assert.EqualValues(t, 1, mine.CompletedCourses)
}
