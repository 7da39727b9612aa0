package authController_test

import (
	"net/http"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app := testutil.Setup(t)

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada Lovelace", "email": " Ada@Example.com ", "password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var user models.User
	testutil.Decode(t, env, &user)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada Again", "email": "ada@example.com", "password": "secret-pass",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	testutil.Decode(t, env, &login)
	assert.NotEmpty(t, login.Token)

	var cookieSet bool
	for _, c := range resp.Cookies() {
		if c.Name == "lms_session" {
			cookieSet = c.HttpOnly && c.Value == login.Token
		}
	}
	assert.True(t, cookieSet)

	resp, env = testutil.Request(t, app, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	testutil.Decode(t, env, &me)
	assert.Equal(t, user.ID, me.ID)

	var trackings int64
	database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", user.ID).Count(&trackings)
	assert.EqualValues(t, 1, trackings)
}

func TestRegisterValidation(t *testing.T) {
	app := testutil.Setup(t)

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Bob", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, env.Status)

	var errs map[string]string
	testutil.Decode(t, env, &errs)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegistrationClosed(t *testing.T) {
	app := testutil.Setup(t)
	require.NoError(t, database.Database.Db.Model(&models.Setting{}).
		Where(&models.Setting{Key: models.SettingAllowRegistration}).Update("value", "false").Error)

	resp, _ := testutil.Request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Closed Door", "email": "closed@example.com", "password": "secret-pass",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginBlockedAfterThreeFailures(t *testing.T) {
	app := testutil.Setup(t)
	user := testutil.CreateUser(t, models.RoleStudent, "block@example.com")

	wrong := map[string]string{"email": user.Email, "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", wrong)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials!", env.Message)
	}

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", wrong)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, env.Message, "blocked")

	// Even the right password is refused while blocked
	resp, env = testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": user.Email, "password": testutil.Password,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, env.Message, "blocked")

	var stored models.User
	require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
	assert.NotNil(t, stored.BlockedUntil)
}

func TestLoginInactiveAccount(t *testing.T) {
	app := testutil.Setup(t)
	user := testutil.CreateUser(t, models.RoleStudent, "inactive@example.com")
	require.NoError(t, database.Database.Db.Model(user).Update("is_active", false).Error)

	resp, _ := testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": user.Email, "password": testutil.Password,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	app := testutil.Setup(t)
	user := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	token := testutil.Token(t, user)

	resp, _ := testutil.Request(t, app, http.MethodPut, "/api/auth/password", token, map[string]string{
		"current_password": "nope-nope", "new_password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPut, "/api/auth/password", token, map[string]string{
		"current_password": testutil.Password, "new_password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": user.Email, "password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMeRequiresSession(t *testing.T) {
	app := testutil.Setup(t)

	resp, env := testutil.Request(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Status)

	resp, _ = testutil.Request(t, app, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	app := testutil.SetupWith(t, func(cfg *config.Config) {
		cfg.LoginRateLimit = 2
	})
	testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	creds := map[string]string{"email": "student@example.com", "password": testutil.Password}

	for i := 0; i < 2; i++ {
		resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	}

	resp, env := testutil.Request(t, app, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, env.Status)
	assert.Equal(t, "Too many login attempts. Please try again later.", env.Message)

	// Other routes are not throttled by the login limiter
	resp, _ = testutil.Request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "New Student", "email": "new@example.com", "password": "secret-pass",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
