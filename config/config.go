package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // mysql, postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // full DSN, overrides the individual DB_* values

	JWTKey        string
	JWTTTLHours   int
	SessionCookie string
	SaltRound     int

	CorsOrigins    string
	LoginRateLimit int // requests per minute per IP on /auth/login
	APIRateLimit   int // requests per minute per IP on /api

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SendgridAPIKey string
	EmailSender    string
	SMTPHost       string
	SMTPPort       string
	SMTPPassword   string

	RollbarToken string

	UploadDir  string
	BackupDir  string
	AutoBackup bool

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTKey:        getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours:   getEnvInt("JWT_TTL_HOURS", 24),
		SessionCookie: getEnv("SESSION_COOKIE", "lms_session"),
		SaltRound:     getEnvInt("SALT_ROUND", 10),

		CorsOrigins:    getEnv("CORS_ORIGINS", "*"),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 5),
		APIRateLimit:   getEnvInt("API_RATE_LIMIT", 300),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),

		RollbarToken: getEnv("ROLLBAR_TOKEN", ""),

		UploadDir:  getEnv("UPLOAD_DIR", "./uploads"),
		BackupDir:  getEnv("BACKUP_DIR", "./backups"),
		AutoBackup: getEnvBool("AUTO_BACKUP", false),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver != "mysql" && AppConfig.DBDriver != "postgres" && AppConfig.DBDriver != "sqlite" {
		log.Printf("Warning: unknown DB_DRIVER %q, falling back to mysql.", AppConfig.DBDriver)
		AppConfig.DBDriver = "mysql"
	}
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsTest reports whether the app runs with APP_ENV=test
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
