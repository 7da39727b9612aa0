package quizController

import (
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMaxAttempts     = errors.New("Maximum attempts reached for this quiz!")
	errAttemptStarting = errors.New("An attempt for this quiz is already being started!")
)

// publicQuestions strips answers and explanations before questions reach a student
func publicQuestions(questions []models.QuizQuestion, shuffle bool) []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(questions))
	for i, q := range questions {
		q.CorrectAnswers = nil
		q.Explanation = ""
		out[i] = q
	}
	if shuffle {
		out = utils.ShuffleQuestionOrder(out)
	}
	return out
}

func attemptDeadline(attempt *models.QuizAttempt, quiz *models.Quiz) *time.Time {
	deadline, ok := utils.AttemptDeadline(attempt.StartedAt, quiz.TimeLimitMinutes, 0)
	if !ok {
		return nil
	}
	return &deadline
}

// expireAttempt closes an attempt that ran past its time limit and grace period
func expireAttempt(tx *gorm.DB, attempt *models.QuizAttempt, at time.Time) error {
	attempt.Status = models.AttemptExpired
	attempt.SubmittedAt = &at
	attempt.Score = 0
	attempt.Percentage = 0
	attempt.Passed = false
	return tx.Model(attempt).
		Select("status", "submitted_at", "score", "percentage", "passed", "answers").
		Updates(attempt).Error
}

func isPastDeadline(attempt *models.QuizAttempt, quiz *models.Quiz, at time.Time, grace int) bool {
	deadline, ok := utils.AttemptDeadline(attempt.StartedAt, quiz.TimeLimitMinutes, grace)
	return ok && at.After(deadline)
}

// StartAttempt starts a new attempt, or resumes the caller's attempt in progress
func StartAttempt(c *fiber.Ctx) error {
	userID, _ := session(c)
	now := time.Now()

	quiz, course, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}
	if _, err := utils.ActiveEnrollment(userID, course.ID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}
	if !quiz.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if quiz.AvailableFrom != nil && now.Before(*quiz.AvailableFrom) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not available yet!", nil)
	}
	if quiz.AvailableUntil != nil && now.After(*quiz.AvailableUntil) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is no longer available!", nil)
	}

	questions, err := loadQuestions(quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This quiz has no questions yet!", nil)
	}

	grace := utils.GetSettingInt(utils.SettingQuizGraceSeconds, 30)

	// The in-progress check, the attempt count and the insert share one transaction
	var (
		attempt models.QuizAttempt
		resumed bool
	)
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		quizQuery := tx
		if tx.Dialector.Name() != "sqlite" {
			quizQuery = quizQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := quizQuery.Select("id").First(&models.Quiz{}, quiz.ID).Error; err != nil {
			return err
		}

		err := tx.Where("quiz_id = ? AND user_id = ? AND status = ?", quiz.ID, userID, models.AttemptInProgress).
			Order("id desc").First(&attempt).Error
		if err == nil {
			if !isPastDeadline(&attempt, quiz, now, grace) {
				resumed = true
				return nil
			}
			if err := expireAttempt(tx, &attempt, now); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var used int64
		if err := tx.Model(&models.QuizAttempt{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).Count(&used).Error; err != nil {
			return err
		}
		if quiz.MaxAttempts > 0 && used >= int64(quiz.MaxAttempts) {
			return errMaxAttempts
		}

		attempt = models.QuizAttempt{
			QuizID:        quiz.ID,
			UserID:        userID,
			AttemptNumber: int(used) + 1,
			Status:        models.AttemptInProgress,
			StartedAt:     now,
			Answers:       datatypes.NewJSONType(map[string][]string{}),
			IPAddress:     c.IP(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			if utils.IsDuplicateKey(err) {
				return errAttemptStarting
			}
			return err
		}
		return nil
	})
	switch {
	case errors.Is(err, errMaxAttempts):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	case errors.Is(err, errAttemptStarting):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case err != nil:
		log.Printf("Error starting attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
	}

	if resumed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt resumed.", fiber.Map{
			"attempt":   attempt,
			"questions": publicQuestions(questions, quiz.ShuffleQuestions),
			"deadline":  attemptDeadline(&attempt, quiz),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started.", fiber.Map{
		"attempt":   attempt,
		"questions": publicQuestions(questions, quiz.ShuffleQuestions),
		"deadline":  attemptDeadline(&attempt, quiz),
	})
}

func findOwnAttempt(c *fiber.Ctx) (*models.QuizAttempt, error) {
	userID, _ := session(c)
	var attempt models.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND user_id = ?", validators.ID(c, "id"), userID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// RecordActivity counts a client event and flags the attempt on too many tab switches
func RecordActivity(c *fiber.Ctx) error {
	reqData := validators.Body[quizValidator.ActivityRequest](c, "validatedActivity")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt, err := findOwnAttempt(c)
	if err != nil {
		return notFoundOr500(c, err, "Attempt")
	}
	if attempt.Status != models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This attempt is no longer in progress!", nil)
	}

	attempt.ActivityEvents++
	if reqData.Event == utils.ActivityTabSwitch {
		attempt.TabSwitches++
	}
	if flagged, reason := utils.TooManyTabSwitches(attempt.TabSwitches, utils.GetSettingInt(utils.SettingMaxTabSwitches, 3)); flagged {
		attempt.IsSuspicious = true
		attempt.SuspiciousReason = utils.AppendReason(attempt.SuspiciousReason, "tab switch limit reached")
		log.Printf("Attempt %d flagged: %s", attempt.ID, reason)
	}

	if err := database.Database.Db.Model(attempt).
		Select("activity_events", "tab_switches", "is_suspicious", "suspicious_reason").
		Updates(attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity recorded.", fiber.Map{
		"tab_switches":    attempt.TabSwitches,
		"activity_events": attempt.ActivityEvents,
		"is_suspicious":   attempt.IsSuspicious,
	})
}

type questionResult struct {
	QuestionID     uint     `json:"question_id"`
	Correct        bool     `json:"correct"`
	Given          []string `json:"given"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation,omitempty"`
	Points         float64  `json:"points"`
}

func buildResults(questions []models.QuizQuestion, answers map[string][]string, correct map[uint]bool) []questionResult {
	results := make([]questionResult, 0, len(questions))
	for _, q := range questions {
		given := answers[utils.FormatID(q.ID)]
		if given == nil {
			given = []string{}
		}
		results = append(results, questionResult{
			QuestionID:     q.ID,
			Correct:        correct[q.ID],
			Given:          given,
			CorrectAnswers: q.CorrectAnswers,
			Explanation:    q.Explanation,
			Points:         q.Points,
		})
	}
	return results
}

// SubmitAttempt grades the answers; late submissions expire with a zero score
func SubmitAttempt(c *fiber.Ctx) error {
	reqData := validators.Body[quizValidator.SubmitAttemptRequest](c, "validatedAttempt")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	now := time.Now()

	attempt, err := findOwnAttempt(c)
	if err != nil {
		return notFoundOr500(c, err, "Attempt")
	}
	if attempt.Status != models.AttemptInProgress {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This attempt has already been submitted!", nil)
	}

	var quiz models.Quiz
	if err := database.Database.Db.First(&quiz, attempt.QuizID).Error; err != nil {
		return notFoundOr500(c, err, "Quiz")
	}
	questions, err := loadQuestions(quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	attempt.Answers = datatypes.NewJSONType(reqData.Answers)

	if isPastDeadline(attempt, &quiz, now, utils.GetSettingInt(utils.SettingQuizGraceSeconds, 30)) {
		if err := expireAttempt(database.Database.Db, attempt, now); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close attempt!", nil)
		}
		utils.RecordAudit(c, utils.AuditAttemptSubmit, "attempt", attempt.ID, fiber.Map{"status": attempt.Status})
		if !quiz.ShowResults {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time limit exceeded. The attempt has expired.", hiddenResult(attempt))
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Time limit exceeded. The attempt has expired.", attempt)
	}

	result := utils.GradeAttempt(questions, reqData.Answers, quiz.PassingScore)
	attempt.Status = models.AttemptSubmitted
	attempt.SubmittedAt = &now
	attempt.Score = result.Score
	attempt.MaxScore = result.MaxScore
	attempt.Percentage = result.Percentage
	attempt.Passed = result.Passed

	minSeconds := utils.GetSettingInt(utils.SettingMinSecondsPerQuestion, 2)
	if quick, _ := utils.CompletedTooQuickly(attempt.StartedAt, now, len(questions), minSeconds); quick {
		attempt.IsSuspicious = true
		attempt.SuspiciousReason = utils.AppendReason(attempt.SuspiciousReason, "completed too quickly")
	}

	if err := database.Database.Db.Model(attempt).
		Select("status", "submitted_at", "score", "max_score", "percentage", "passed", "answers", "is_suspicious", "suspicious_reason").
		Updates(attempt).Error; err != nil {
		log.Printf("Error saving attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	message := "Your attempt for " + quiz.Title + " was submitted."
	if quiz.ShowResults {
		if result.Passed {
			message = "You passed " + quiz.Title + "."
		} else {
			message = "You did not pass " + quiz.Title + "."
		}
	}
	utils.Notify(attempt.UserID, models.NotifyQuiz, "Quiz submitted", message, "/attempts/"+utils.FormatID(attempt.ID))
	utils.RecordAudit(c, utils.AuditAttemptSubmit, "attempt", attempt.ID, fiber.Map{
		"quiz_id": quiz.ID, "score": attempt.Score, "percentage": attempt.Percentage, "suspicious": attempt.IsSuspicious,
	})

	if !quiz.ShowResults {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted successfully!", hiddenResult(attempt))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted successfully!", fiber.Map{
		"attempt": attempt,
		"results": buildResults(questions, reqData.Answers, result.Correct),
	})
}

// hiddenResult is what a student sees when the quiz hides results
func hiddenResult(attempt *models.QuizAttempt) fiber.Map {
	return fiber.Map{
		"attempt": fiber.Map{
			"id":             attempt.ID,
			"quiz_id":        attempt.QuizID,
			"attempt_number": attempt.AttemptNumber,
			"status":         attempt.Status,
			"started_at":     attempt.StartedAt,
			"submitted_at":   attempt.SubmittedAt,
		},
	}
}

// GetAttempt shows an attempt to its owner (subject to show_results) or to a course manager
func GetAttempt(c *fiber.Ctx) error {
	userID, role := session(c)

	var attempt models.QuizAttempt
	if err := database.Database.Db.Preload("User").First(&attempt, validators.ID(c, "id")).Error; err != nil {
		return notFoundOr500(c, err, "Attempt")
	}
	quiz, course, err := findQuiz(attempt.QuizID)
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}

	manager := utils.CanManageCourse(role, userID, course)
	if !manager && attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot view this attempt!", nil)
	}

	if !manager && (!quiz.ShowResults || attempt.Status == models.AttemptInProgress) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", hiddenResult(&attempt))
	}

	questions, err := loadQuestions(quiz.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	answers := attempt.Answers.Data()
	correct := make(map[uint]bool, len(questions))
	for _, q := range questions {
		correct[q.ID] = utils.GradeQuestion(q, answers[utils.FormatID(q.ID)])
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", fiber.Map{
		"attempt": attempt,
		"results": buildResults(questions, answers, correct),
	})
}

// ListQuizAttempts lists every attempt of a quiz for its managers
func ListQuizAttempts(c *fiber.Ctx) error {
	userID, role := session(c)
	page := validators.Page(c)

	quiz, course, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}
	if !utils.CanManageCourse(role, userID, course) {
		return forbidden(c)
	}

	query := database.Database.Db.Model(&models.QuizAttempt{}).Where("quiz_id = ?", quiz.ID)
	if suspicious := validators.QueryBool(c, "suspicious"); suspicious != nil {
		query = query.Where("is_suspicious = ?", *suspicious)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var attempts []models.QuizAttempt
	if err := query.Preload("User").Order("id desc").
		Offset(page.Offset).Limit(page.Limit).Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts":   attempts,
		"pagination": middleware.NewPagination(total, page.Page, page.Limit),
	})
}

func ListMyAttempts(c *fiber.Ctx) error {
	userID, _ := session(c)

	quiz, _, err := findQuiz(validators.ID(c, "id"))
	if err != nil {
		return notFoundOr500(c, err, "Quiz")
	}

	var attempts []models.QuizAttempt
	if err := database.Database.Db.Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).
		Order("attempt_number asc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	if !quiz.ShowResults {
		hidden := make([]fiber.Map, 0, len(attempts))
		for i := range attempts {
			hidden = append(hidden, hiddenResult(&attempts[i])["attempt"].(fiber.Map))
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", hidden)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
