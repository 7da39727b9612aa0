package userValidator

import (
	"strings"

	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120,safetext"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN INSTRUCTOR STUDENT"`
	Bio      string `json:"bio" validate:"max=2000"`
}

func (r *CreateUserRequest) Normalize() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	return nil
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120,safetext"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN INSTRUCTOR STUDENT"`
	IsActive *bool   `json:"is_active"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
}

func (r *UpdateUserRequest) Normalize() map[string]string {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*r.Role))
		r.Role = &role
	}
	if r.Name == nil && r.Role == nil && r.IsActive == nil && r.Bio == nil {
		return map[string]string{"_": "Nothing to update!"}
	}
	return nil
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120,safetext"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

func (r *UpdateProfileRequest) Normalize() map[string]string {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return nil
}

func CreateUser() fiber.Handler {
	return validators.ValidateBody[CreateUserRequest]("validatedUser")
}

func UpdateUser() fiber.Handler {
	return validators.ValidateBody[UpdateUserRequest]("validatedUserUpdate")
}

func UpdateProfile() fiber.Handler {
	return validators.ValidateBody[UpdateProfileRequest]("validatedProfile")
}

// UserList checks the optional role and is_active filters
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if role := strings.ToUpper(c.Query("role")); role != "" {
			valid := false
			for _, r := range models.ValidRoles {
				if r == role {
					valid = true
				}
			}
			if !valid {
				errors["role"] = "Role must be one of ADMIN, INSTRUCTOR, STUDENT!"
			}
		}
		if raw := c.Query("is_active"); raw != "" && validators.QueryBool(c, "is_active") == nil {
			errors["is_active"] = "is_active must be true or false!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		return c.Next()
	}
}
