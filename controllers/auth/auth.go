package authController

import (
	"errors"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	failureWindow   = 15 * time.Minute
	blockDuration   = 15 * time.Minute
)

func Register(c *fiber.Ctx) error {
	reqData := validators.Body[authValidator.RegisterRequest](c, "validatedRegister")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !utils.GetSettingBool(utils.SettingAllowRegistration, true) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Registration is currently closed!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleStudent,
		IsActive: true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.RecordAuditFor(c, &newUser.ID, utils.AuditRegister, "user", newUser.ID, fiber.Map{"email": newUser.Email})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := validators.Body[authValidator.LoginRequest](c, "validatedLogin")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db
	now := time.Now()

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		utils.RecordAuditFor(c, nil, utils.AuditLoginFailed, "user", 0, fiber.Map{"email": reqData.Email})
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Check if the user is blocked
	if user.IsBlocked(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	// Failures older than the window no longer count
	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failureWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(blockDuration)
			user.BlockedUntil = &unblockTime
			user.FailedLoginAttempts = 0
		}
		if err := saveLoginState(&user); err != nil {
			log.Printf("Error updating failed login state: %v", err)
		}

		utils.RecordAuditFor(c, &user.ID, utils.AuditLoginFailed, "user", user.ID, fiber.Map{"blocked": user.IsBlocked(now)})
		if user.IsBlocked(now) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Too many failed attempts. Your account is blocked for 15 minutes.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is deactivated!", nil)
	}

	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.BlockedUntil = nil
	user.LastLogin = &now
	if err := saveLoginState(&user); err != nil {
		log.Printf("Error resetting login state: %v", err)
	}

	token, expiresAt, err := middleware.GenerateJWT(user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}
	middleware.SetSessionCookie(c, token, expiresAt)

	tracking := models.LoginTracking{
		UserID:     user.ID,
		Role:       user.Role,
		IPAddress:  c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		LoggedInAt: now,
		ExpiresAt:  expiresAt,
	}
	if err := db.Create(&tracking).Error; err != nil {
		log.Printf("Error saving login tracking: %v", err)
	}

	utils.RecordAuditFor(c, &user.ID, utils.AuditLogin, "user", user.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

func saveLoginState(user *models.User) error {
	return database.Database.Db.Model(user).
		Select("failed_login_attempts", "last_failed_login", "blocked_until", "last_login").
		Updates(user).Error
}

func Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	middleware.ClearSessionCookie(c)
	utils.RecordAudit(c, utils.AuditLogout, "user", userID, nil)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}

func Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Current user.", user)
}

func ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := validators.Body[authValidator.ChangePasswordRequest](c, "validatedPassword")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := database.Database.Db.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	utils.RecordAudit(c, utils.AuditPasswordChange, "user", user.ID, nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
}
