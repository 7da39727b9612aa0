package authValidator

import (
	"strings"

	"lms/utils"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120,safetext"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Normalize() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() map[string]string {
	r.Email = utils.NormalizeEmail(r.Email)
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// Register validator middleware
func Register() fiber.Handler {
	return validators.ValidateBody[RegisterRequest]("validatedRegister")
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.ValidateBody[LoginRequest]("validatedLogin")
}

func ChangePassword() fiber.Handler {
	return validators.ValidateBody[ChangePasswordRequest]("validatedPassword")
}
