package forumController

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	forumValidator "lms/validators/forum"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func session(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	return userID, role
}

func notFoundOr500(c *fiber.Ctx, err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, what+" not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch "+what+"!", nil)
}

// participant reports whether the caller may read and post in the course forums
func participant(c *fiber.Ctx, course *models.Course) (isParticipant, isManager bool) {
	userID, role := session(c)
	if utils.CanManageCourse(role, userID, course) {
		return true, true
	}
	_, err := utils.ActiveEnrollment(userID, course.ID)
	return err == nil, false
}

func denied(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not a participant of this course!", nil)
}

func findForum(id uint) (*models.Forum, *models.Course, error) {
	var forum models.Forum
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&forum).Error; err != nil {
		return nil, nil, err
	}
	course, err := utils.FindCourse(forum.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &forum, course, nil
}

func findThread(id uint) (*models.ForumThread, *models.Course, error) {
	var thread models.ForumThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&thread).Error; err != nil {
		return nil, nil, err
	}
	_, course, err := findForum(thread.ForumID)
	if err != nil {
		return nil, nil, err
	}
	return &thread, course, nil
}

type forumSummary struct {
	models.Forum
	ThreadCount int64 `json:"thread_count"`
}

func ListForums(c *fiber.Ctx) error {
	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if ok, _ := participant(c, course); !ok {
		return denied(c)
	}

	var forums []models.Forum
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("id asc").Find(&forums).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch forums!", nil)
	}

	result := make([]forumSummary, 0, len(forums))
	for _, f := range forums {
		var count int64
		database.Database.Db.Model(&models.ForumThread{}).Where("forum_id = ? AND is_deleted = ?", f.ID, false).Count(&count)
		result = append(result, forumSummary{Forum: f, ThreadCount: count})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Forums fetched successfully!", result)
}

func CreateForum(c *fiber.Ctx) error {
	reqData := validators.Body[forumValidator.ForumRequest](c, "validatedForum")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := utils.FindCourse(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Course")
	}
	if _, manager := participant(c, course); !manager {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}

	forum := models.Forum{CourseID: course.ID, Title: reqData.Title, Description: reqData.Description}
	if err := database.Database.Db.Create(&forum).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create forum!", nil)
	}

	utils.RecordAudit(c, utils.AuditForumCreate, "forum", forum.ID, fiber.Map{"course_id": course.ID, "title": forum.Title})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Forum created successfully!", forum)
}

func DeleteForum(c *fiber.Ctx) error {
	forum, course, err := findForum(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Forum")
	}
	if _, manager := participant(c, course); !manager {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to manage this course!", nil)
	}

	if err := database.Database.Db.Model(forum).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete forum!", nil)
	}

	utils.RecordAudit(c, utils.AuditForumDelete, "forum", forum.ID, fiber.Map{"course_id": course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Forum deleted successfully!", nil)
}

// ListThreads lists pinned threads first, then by latest activity
func ListThreads(c *fiber.Ctx) error {
	page := validators.Page(c)
	forum, course, err := findForum(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Forum")
	}
	if ok, _ := participant(c, course); !ok {
		return denied(c)
	}

	query := database.Database.Db.Model(&models.ForumThread{}).Where("forum_id = ? AND is_deleted = ?", forum.ID, false)
	var total int64
	query.Count(&total)

	var threads []models.ForumThread
	if err := query.Preload("User").
		Order("is_pinned desc").Order("COALESCE(last_reply_at, created_at) desc").Order("id desc").
		Offset(page.Offset).Limit(page.Limit).Find(&threads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch threads!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Threads fetched successfully!", fiber.Map{
		"forum":      forum,
		"threads":    threads,
		"pagination": middleware.NewPagination(total, page.Page, page.Limit),
	})
}

func CreateThread(c *fiber.Ctx) error {
	userID, _ := session(c)
	reqData := validators.Body[forumValidator.ThreadRequest](c, "validatedThread")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	forum, course, err := findForum(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Forum")
	}
	if ok, _ := participant(c, course); !ok {
		return denied(c)
	}

	thread := models.ForumThread{
		ForumID: forum.ID,
		UserID:  userID,
		Title:   reqData.Title,
		Content: reqData.Content,
	}
	if err := database.Database.Db.Create(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create thread!", nil)
	}
	utils.RecordAudit(c, utils.AuditThreadCreate, "thread", thread.ID, fiber.Map{"forum_id": forum.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thread created successfully!", thread)
}

func GetThread(c *fiber.Ctx) error {
	thread, course, err := findThread(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Thread")
	}
	if ok, _ := participant(c, course); !ok {
		return denied(c)
	}

	database.Database.Db.Preload("User").First(thread, thread.ID)

	var replies []models.ForumReply
	if err := database.Database.Db.Preload("User").Where("thread_id = ? AND is_deleted = ?", thread.ID, false).
		Order("created_at asc, id asc").Find(&replies).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch replies!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread fetched successfully!", fiber.Map{
		"thread":  thread,
		"replies": replies,
	})
}

func DeleteThread(c *fiber.Ctx) error {
	userID, _ := session(c)
	thread, course, err := findThread(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Thread")
	}
	if _, manager := participant(c, course); !manager && thread.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot delete this thread!", nil)
	}

	if err := database.Database.Db.Model(thread).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete thread!", nil)
	}

	utils.RecordAudit(c, utils.AuditThreadDelete, "thread", thread.ID, fiber.Map{"forum_id": thread.ForumID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread deleted successfully!", nil)
}

func moderate(c *fiber.Ctx, column string, value bool, apply func(*models.ForumThread)) error {
	thread, course, err := findThread(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Thread")
	}
	if _, manager := participant(c, course); !manager {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to moderate this forum!", nil)
	}

	if err := database.Database.Db.Model(thread).Update(column, value).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update thread!", nil)
	}
	apply(thread)

	utils.RecordAudit(c, utils.AuditThreadModerate, "thread", thread.ID, fiber.Map{column: value})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread updated successfully!", thread)
}

func PinThread(c *fiber.Ctx) error {
	reqData := validators.Body[forumValidator.PinRequest](c, "validatedPin")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	return moderate(c, "is_pinned", *reqData.IsPinned, func(t *models.ForumThread) { t.IsPinned = *reqData.IsPinned })
}

func LockThread(c *fiber.Ctx) error {
	reqData := validators.Body[forumValidator.LockRequest](c, "validatedLock")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	return moderate(c, "is_locked", *reqData.IsLocked, func(t *models.ForumThread) { t.IsLocked = *reqData.IsLocked })
}

// CreateReply posts to an unlocked thread and notifies its author
func CreateReply(c *fiber.Ctx) error {
	userID, _ := session(c)
	reqData := validators.Body[forumValidator.ReplyRequest](c, "validatedReply")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	thread, course, err := findThread(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Thread")
	}
	if ok, _ := participant(c, course); !ok {
		return denied(c)
	}
	if thread.IsLocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This thread is locked!", nil)
	}

	reply := models.ForumReply{ThreadID: thread.ID, UserID: userID, Content: reqData.Content}
	now := time.Now()
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.ForumThread{}).Where("id = ?", thread.ID).Updates(map[string]interface{}{
			"reply_count":   gorm.Expr("reply_count + ?", 1),
			"last_reply_at": now,
		}).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post reply!", nil)
	}

	if thread.UserID != userID {
		utils.Notify(thread.UserID, models.NotifyForum, "New reply",
			"Someone replied to your thread \""+thread.Title+"\".", "/threads/"+utils.FormatID(thread.ID))
	}
	utils.RecordAudit(c, utils.AuditReplyCreate, "reply", reply.ID, fiber.Map{"thread_id": thread.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reply posted successfully!", reply)
}

func DeleteReply(c *fiber.Ctx) error {
	userID, _ := session(c)

	var reply models.ForumReply
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", validators.ID(c, "id"), false).First(&reply).Error; err != nil {
		return notFoundOr500(c, err, "Reply")
	}
	thread, course, err := findThread(reply.ThreadID)
	if err != nil {
		return notFoundOr500(c, err, "Thread")
	}
	if _, manager := participant(c, course); !manager && reply.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot delete this reply!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reply).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.ForumThread{}).Where("id = ? AND reply_count > 0", thread.ID).
			Update("reply_count", gorm.Expr("reply_count - ?", 1)).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete reply!", nil)
	}

	utils.RecordAudit(c, utils.AuditReplyDelete, "reply", reply.ID, fiber.Map{"thread_id": thread.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply deleted successfully!", nil)
}
