package forumController_test

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

func TestForumDiscussion(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	author := testutil.CreateUser(t, models.RoleStudent, "author@example.com")
	replier := testutil.CreateUser(t, models.RoleStudent, "replier@example.com")
	outsider := testutil.CreateUser(t, models.RoleStudent, "outsider@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, author.ID, course.ID, models.EnrollmentActive)
	testutil.Enroll(t, replier.ID, course.ID, models.EnrollmentActive)

	teacherToken := testutil.Token(t, instructor)
	authorToken := testutil.Token(t, author)
	replierToken := testutil.Token(t, replier)

	resp, _ := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/forums", course.ID), authorToken,
		map[string]string{"title": "General"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/forums", course.ID), teacherToken,
		map[string]string{"title": "General", "description": "Anything goes"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var forum models.Forum
	testutil.Decode(t, env, &forum)

	threadsPath := fmt.Sprintf("/api/forums/%d/threads", forum.ID)
	resp, _ = testutil.Request(t, app, http.MethodPost, threadsPath, testutil.Token(t, outsider),
		map[string]string{"title": "Hello", "content": "Can I join?"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodPost, threadsPath, authorToken,
		map[string]string{"title": "Week 1 question", "content": "What is a monad?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var thread models.ForumThread
	testutil.Decode(t, env, &thread)

	repliesPath := fmt.Sprintf("/api/threads/%d/replies", thread.ID)
	resp, env = testutil.Request(t, app, http.MethodPost, repliesPath, replierToken, map[string]string{"content": "A burrito."})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var reply models.ForumReply
	testutil.Decode(t, env, &reply)

	resp, _ = testutil.Request(t, app, http.MethodPost, repliesPath, authorToken, map[string]string{"content": "Thanks!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored models.ForumThread
	require.NoError(t, database.Database.Db.First(&stored, thread.ID).Error)
	assert.Equal(t, 2, stored.ReplyCount)
	assert.NotNil(t, stored.LastReplyAt)

	// Only the reply from someone else notifies the author
	var notifications int64
	database.Database.Db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", author.ID, models.NotifyForum).Count(&notifications)
	assert.EqualValues(t, 1, notifications)

	var audits int64
	database.Database.Db.Model(&models.AuditLog{}).Where("action = ? AND entity_id = ?", utils.AuditThreadCreate, thread.ID).Count(&audits)
	assert.EqualValues(t, 1, audits)
	database.Database.Db.Model(&models.AuditLog{}).Where("action = ?", utils.AuditReplyCreate).Count(&audits)
	assert.EqualValues(t, 2, audits)

	resp, _ = testutil.Request(t, app, http.MethodDelete, fmt.Sprintf("/api/replies/%d", reply.ID), authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = testutil.Request(t, app, http.MethodDelete, fmt.Sprintf("/api/replies/%d", reply.ID), replierToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/threads/%d", thread.ID), authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Thread  models.ForumThread  `json:"thread"`
		Replies []models.ForumReply `json:"replies"`
	}
	testutil.Decode(t, env, &detail)
	assert.Equal(t, 1, detail.Thread.ReplyCount)
	require.Len(t, detail.Replies, 1)
	assert.Equal(t, "Thanks!", detail.Replies[0].Content)
}

func TestLockedThreadRejectsReplies(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	student := testutil.CreateUser(t, models.RoleStudent, "student@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	testutil.Enroll(t, student.ID, course.ID, models.EnrollmentActive)

	forum := &models.Forum{CourseID: course.ID, Title: "Announcements"}
	require.NoError(t, database.Database.Db.Create(forum).Error)
	thread := &models.ForumThread{ForumID: forum.ID, UserID: instructor.ID, Title: "Exam dates", Content: "See syllabus"}
	require.NoError(t, database.Database.Db.Create(thread).Error)

	teacherToken := testutil.Token(t, instructor)
	studentToken := testutil.Token(t, student)

	resp, _ := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/threads/%d/lock", thread.ID), studentToken,
		map[string]bool{"is_locked": true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/threads/%d/lock", thread.ID), teacherToken,
		map[string]bool{"is_locked": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var locked models.ForumThread
	testutil.Decode(t, env, &locked)
	assert.True(t, locked.IsLocked)

	resp, env = testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/threads/%d/replies", thread.ID), studentToken,
		map[string]string{"content": "When is the final?"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "This thread is locked!", env.Message)
}

func TestPinnedThreadsListFirst(t *testing.T) {
	app := testutil.Setup(t)
	instructor := testutil.CreateUser(t, models.RoleInstructor, "teacher@example.com")
	course := testutil.CreateCourse(t, instructor.ID, models.CoursePublished, 0)
	forum := &models.Forum{CourseID: course.ID, Title: "General"}
	require.NoError(t, database.Database.Db.Create(forum).Error)

	var ids []uint
	for _, title := range []string{"Older", "Pinned", "Newest"} {
		thread := &models.ForumThread{ForumID: forum.ID, UserID: instructor.ID, Title: title, Content: "Body"}
		require.NoError(t, database.Database.Db.Create(thread).Error)
		ids = append(ids, thread.ID)
	}
	token := testutil.Token(t, instructor)
	resp, _ := testutil.Request(t, app, http.MethodPost, fmt.Sprintf("/api/threads/%d/pin", ids[1]), token, map[string]bool{"is_pinned": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/api/forums/%d/threads", forum.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Threads []models.ForumThread `json:"threads"`
	}
	testutil.Decode(t, env, &page)
	require.Len(t, page.Threads, 3)
	assert.Equal(t, "Pinned", page.Threads[0].Title)
}
