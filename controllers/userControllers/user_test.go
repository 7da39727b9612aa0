package userController_test

import (
	"net/http"
	"strconv"
	"testing"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdministration(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "admin@example.com")
	token := testutil.Token(t, admin)

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/users", token, map[string]string{
		"name": "Grace Hopper", "email": "grace@example.com", "password": "compiler1", "role": "INSTRUCTOR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var created models.User
	testutil.Decode(t, env, &created)
	assert.Equal(t, models.RoleInstructor, created.Role)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/users", token, map[string]string{
		"name": "Grace Again", "email": "grace@example.com", "password": "compiler1", "role": "STUDENT",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	testutil.CreateUser(t, models.RoleStudent, "student@example.com")

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/users?role=INSTRUCTOR&search=grace", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Users      []models.User         `json:"users"`
		Pagination middleware.Pagination `json:"pagination"`
	}
	testutil.Decode(t, env, &list)
	require.Len(t, list.Users, 1)
	assert.Equal(t, created.ID, list.Users[0].ID)
	assert.EqualValues(t, 1, list.Pagination.Total)

	path := "/api/users/" + strconv.Itoa(int(created.ID))
	resp, _ = testutil.Request(t, app, http.MethodPut, path, token, map[string]interface{}{"is_active": false, "bio": "COBOL"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "COBOL", stored.Bio)

	resp, _ = testutil.Request(t, app, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var audits int64
	database.Database.Db.Model(&models.AuditLog{}).Where("entity_type = ? AND entity_id = ?", "user", created.ID).Count(&audits)
	assert.EqualValues(t, 3, audits)
}

func TestAdminCannotRemoveSelf(t *testing.T) {
	app := testutil.Setup(t)
	admin := testutil.CreateUser(t, models.RoleAdmin, "root@example.com")
	token := testutil.Token(t, admin)
	path := "/api/users/" + strconv.Itoa(int(admin.ID))

	resp, _ := testutil.Request(t, app, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPut, path, token, map[string]string{"role": "STUDENT"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserRoutesAreAdminOnly(t *testing.T) {
	app := testutil.Setup(t)
	student := testutil.CreateUser(t, models.RoleStudent, "learner@example.com")

	resp, _ := testutil.Request(t, app, http.MethodGet, "/api/users", testutil.Token(t, student), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateOwnProfile(t *testing.T) {
	app := testutil.Setup(t)
	student := testutil.CreateUser(t, models.RoleStudent, "me@example.com")

	resp, _ := testutil.Request(t, app, http.MethodPut, "/api/users/me/profile", testutil.Token(t, student), map[string]string{
		"name": "New Name", "avatar_url": "https://cdn.example.com/me.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, student.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "https://cdn.example.com/me.png", stored.AvatarURL)
}
