// Package testutil boots the API against an in-memory sqlite database for HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain password of every user created by CreateUser
const Password = "password123"

// Envelope is the standard response body
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Setup points the global config and database at a fresh in-memory store and returns the app
func Setup(t *testing.T) *fiber.App {
	t.Helper()
	return SetupWith(t, nil)
}

// SetupWith is Setup with a hook to adjust the config before routes are mounted
func SetupWith(t *testing.T, configure func(cfg *config.Config)) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		AppEnv:         "test",
		DBDriver:       "sqlite",
		JWTKey:         "test-secret",
		JWTTTLHours:    1,
		SessionCookie:  "lms_session",
		SaltRound:      bcrypt.MinCost,
		CorsOrigins:    "*",
		LoginRateLimit: 1000,
		UploadDir:      t.TempDir(),
		BackupDir:      t.TempDir(),
	}
	if configure != nil {
		configure(config.AppConfig)
	}

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedDefaults(db))

	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return server.NewApp(config.AppConfig)
}

// WithCache backs the catalog cache with an in-process redis server
func WithCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	database.Database.Cache = rdb
	t.Cleanup(func() {
		_ = rdb.Close()
		database.Database.Cache = nil
	})
	return mr
}

// CreateUser inserts an active user with Password
func CreateUser(t *testing.T, role, email string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     role + " " + email,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

// Token returns a bearer token for user
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := middleware.GenerateJWT(*user)
	require.NoError(t, err)
	return token
}

// CreateCourse inserts a course owned by instructorID
func CreateCourse(t *testing.T, instructorID uint, status string, capacity int) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:        "Course " + uuid.NewString()[:6],
		Code:         "C-" + uuid.NewString()[:8],
		Category:     "engineering",
		InstructorID: instructorID,
		Status:       status,
		IsPublished:  status == models.CoursePublished,
		Capacity:     capacity,
	}
	require.NoError(t, database.Database.Db.Create(course).Error)
	return course
}

// Enroll inserts an enrollment with the given status
func Enroll(t *testing.T, userID, courseID uint, status string) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, database.Database.Db.Create(enrollment).Error)
	return enrollment
}

// CreateLesson inserts a published text lesson inside a new module of courseID
func CreateLesson(t *testing.T, courseID uint) *models.Lesson {
	t.Helper()
	module := &models.Module{CourseID: courseID, Title: "Module", OrderIndex: 1}
	require.NoError(t, database.Database.Db.Create(module).Error)

	lesson := &models.Lesson{
		CourseID:    courseID,
		ModuleID:    module.ID,
		Title:       "Lesson",
		ContentType: "TEXT",
		Content:     "Body",
		OrderIndex:  1,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(lesson).Error)
	return lesson
}

// Request sends a JSON request; token may be empty and body may be nil
func Request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, app, req)
}

// Multipart sends form fields plus one file under "file"
func Multipart(t *testing.T, app *fiber.App, path, token string, fields map[string]string, filename string, content []byte) (*http.Response, Envelope) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, Envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

// Decode unmarshals the envelope data into dest
func Decode(t *testing.T, env Envelope, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}
