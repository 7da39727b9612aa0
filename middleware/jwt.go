package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// GenerateJWT generates a session token for the user
func GenerateJWT(user models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(config.AppConfig.JWTTTLHours) * time.Hour)
	claims := jwt.MapClaims{
		"userId": user.ID,
		"name":   user.Name,
		"role":   user.Role,
		"email":  user.Email,
		"iat":    time.Now().Unix(),
		"exp":    expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTKey))
	return signed, expiresAt, err
}

// SetSessionCookie stores the token in an httpOnly cookie
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     config.AppConfig.SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   config.AppConfig.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     config.AppConfig.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
}

// tokenFromRequest reads the bearer header first and falls back to the session cookie
func tokenFromRequest(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", errors.New("Invalid Authorization header format")
		}
		return authHeader[len("Bearer "):], nil
	}
	if cookie := c.Cookies(config.AppConfig.SessionCookie); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Missing or invalid session")
}

// JWTMiddleware checks for a valid session token and loads the current user
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString, err := tokenFromRequest(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", uint(userID), false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading session!", nil)
	}
	if !user.IsActive {
		return JsonResponse(c, fiber.StatusForbidden, false, "Account is deactivated!", nil)
	}

	c.Locals("userId", user.ID)
	c.Locals("role", user.Role)
	c.Locals("user", &user)

	return c.Next()
}
