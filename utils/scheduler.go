package utils

import (
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/robfig/cron/v3"
)

// InitializeScheduler registers the background jobs and starts the cron runner
func InitializeScheduler(cfg *config.Config) *cron.Cron {
	log.Println("[SCHEDULER] Initializing scheduler...")

	c := cron.New()

	c.AddFunc("@every 5m", func() {
		if n := ExpireStaleAttempts(time.Now()); n > 0 {
			log.Printf("[SCHEDULER] Expired %d quiz attempts", n)
		}
	})

	// Hourly, on the hour
	c.AddFunc("0 * * * *", func() {
		if n := SendAssignmentReminders(time.Now()); n > 0 {
			log.Printf("[SCHEDULER] Sent %d assignment reminders", n)
		}
	})

	if cfg.AutoBackup {
		c.AddFunc("0 2 * * *", func() {
			if _, err := CreateBackup(database.Database.Db, database.AllModels(), cfg.BackupDir); err != nil {
				log.Printf("[SCHEDULER] Automatic backup failed: %v", err)
				ReportError(err, map[string]interface{}{"job": "auto-backup"})
			}
		})
	}

	c.Start()
	log.Println("[SCHEDULER] Scheduler started")
	return c
}

// ExpireStaleAttempts closes in-progress attempts whose time limit and grace period have passed
func ExpireStaleAttempts(at time.Time) int {
	db := database.Database.Db
	grace := GetSettingInt(SettingQuizGraceSeconds, 30)

	var rows []struct {
		ID               uint
		StartedAt        time.Time
		TimeLimitMinutes int
	}
	if err := db.Table("quiz_attempts").
		Select("quiz_attempts.id, quiz_attempts.started_at, quizzes.time_limit_minutes").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.status = ? AND quizzes.time_limit_minutes > 0 AND quiz_attempts.deleted_at IS NULL", models.AttemptInProgress).
		Scan(&rows).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching in-progress attempts: %v", err)
		return 0
	}

	var stale []uint
	for _, r := range rows {
		if deadline, ok := AttemptDeadline(r.StartedAt, r.TimeLimitMinutes, grace); ok && at.After(deadline) {
			stale = append(stale, r.ID)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	result := db.Model(&models.QuizAttempt{}).
		Where("id IN ? AND status = ?", stale, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":       models.AttemptExpired,
			"submitted_at": at,
			"score":        0,
			"percentage":   0,
			"passed":       false,
		})
	if result.Error != nil {
		log.Printf("[SCHEDULER] Error expiring attempts: %v", result.Error)
		return 0
	}
	return int(result.RowsAffected)
}

// SendAssignmentReminders notifies enrolled students without a submission about
// assignments due within the next 24 hours. Each assignment is reminded once.
func SendAssignmentReminders(at time.Time) int {
	db := database.Database.Db

	var assignments []models.Assignment
	if err := db.
		Where("is_published = ? AND is_deleted = ? AND reminder_sent = ?", true, false, false).
		Where("due_date BETWEEN ? AND ?", at, at.Add(24*time.Hour)).
		Find(&assignments).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching due assignments: %v", err)
		return 0
	}

	sent := 0
	for _, a := range assignments {
		var studentIDs []uint
		if err := db.Model(&models.Enrollment{}).
			Where("course_id = ? AND status = ? AND is_deleted = ?", a.CourseID, models.EnrollmentActive, false).
			Where("user_id NOT IN (?)", db.Model(&models.Submission{}).Select("user_id").Where("assignment_id = ? AND is_deleted = ?", a.ID, false)).
			Pluck("user_id", &studentIDs).Error; err != nil {
			log.Printf("[SCHEDULER] Error fetching students for assignment %d: %v", a.ID, err)
			continue
		}

		sent += NotifyMany(studentIDs, models.NotifyAssignment,
			"Assignment due soon",
			fmt.Sprintf("%q is due on %s.", a.Title, a.DueDate.Format("Jan 2, 15:04")),
			fmt.Sprintf("/assignments/%d", a.ID))

		db.Model(&a).Update("reminder_sent", true)
	}
	return sent
}
