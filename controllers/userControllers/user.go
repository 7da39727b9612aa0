package userController

import (
	"errors"
	"log"
	"strings"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"
	userValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	page := validators.Page(c)

	query := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := strings.ToUpper(c.Query("role")); role != "" {
		query = query.Where("role = ?", role)
	}
	if active := validators.QueryBool(c, "is_active"); active != nil {
		query = query.Where("is_active = ?", *active)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	var users []models.User
	if err := query.Order("id desc").Offset(page.Offset).Limit(page.Limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", fiber.Map{
		"users":      users,
		"pagination": middleware.NewPagination(total, page.Page, page.Limit),
	})
}

func GetUser(c *fiber.Ctx) error {
	user, err := findUser(validators.ID(c, "id"))
	if err != nil {
		return userLookupError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User details.", user)
}

func CreateUser(c *fiber.Ctx) error {
	reqData := validators.Body[userValidator.CreateUserRequest](c, "validatedUser")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
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
		Role:     reqData.Role,
		Bio:      reqData.Bio,
		IsActive: true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	utils.RecordAudit(c, utils.AuditUserCreate, "user", newUser.ID, fiber.Map{"email": newUser.Email, "role": newUser.Role})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", newUser)
}

func UpdateUser(c *fiber.Ctx) error {
	reqData := validators.Body[userValidator.UpdateUserRequest](c, "validatedUserUpdate")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := findUser(validators.ID(c, "id"))
	if err != nil {
		return userLookupError(c, err)
	}

	currentID, _ := c.Locals("userId").(uint)
	if user.ID == currentID && ((reqData.Role != nil && *reqData.Role != user.Role) || (reqData.IsActive != nil && !*reqData.IsActive)) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot demote or deactivate your own account!", nil)
	}

	changes := map[string]interface{}{}
	if reqData.Name != nil {
		changes["name"] = *reqData.Name
	}
	if reqData.Role != nil {
		changes["role"] = *reqData.Role
	}
	if reqData.IsActive != nil {
		changes["is_active"] = *reqData.IsActive
	}
	if reqData.Bio != nil {
		changes["bio"] = *reqData.Bio
	}

	if err := database.Database.Db.Model(user).Updates(changes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	utils.RecordAudit(c, utils.AuditUserUpdate, "user", user.ID, changes)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

func DeleteUser(c *fiber.Ctx) error {
	id := validators.ID(c, "id")
	if currentID, _ := c.Locals("userId").(uint); currentID == id {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	user, err := findUser(id)
	if err != nil {
		return userLookupError(c, err)
	}

	if err := database.Database.Db.Model(user).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	utils.RecordAudit(c, utils.AuditUserDelete, "user", user.ID, fiber.Map{"email": user.Email})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}

// UpdateProfile lets any user change their own public profile
func UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := validators.Body[userValidator.UpdateProfileRequest](c, "validatedProfile")
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	changes := map[string]interface{}{}
	if reqData.Name != nil {
		changes["name"] = *reqData.Name
	}
	if reqData.Bio != nil {
		changes["bio"] = *reqData.Bio
	}
	if reqData.AvatarURL != nil {
		changes["avatar_url"] = *reqData.AvatarURL
	}
	if len(changes) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Nothing to update.", user)
	}

	if err := database.Database.Db.Model(user).Updates(changes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	utils.RecordAudit(c, utils.AuditProfileUpdate, "user", user.ID, changes)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func findUser(id uint) (*models.User, error) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func userLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
}
