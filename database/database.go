package database

import (
	"fmt"
	"log"
	"os"

	"lms/config"
	"lms/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db    *gorm.DB
	Cache *redis.Client // nil when REDIS_ADDR is not configured
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured SQL database, tunes the pool and runs migrations
func ConnectDb() {
	cfg := config.AppConfig

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	Database = DbInstance{Db: db, Cache: connectRedis(cfg)}
}

// dialector picks the gorm driver for DB_DRIVER
func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
			)
		}
		return postgres.Open(dsn)
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn)
	default:
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			)
		}
		return mysql.Open(dsn)
	}
}

// AllModels lists every table in dependency order; used by migrations and backups
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.LoginTracking{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.LessonCompletion{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.Forum{},
		&models.ForumThread{},
		&models.ForumReply{},
		&models.Certificate{},
		&models.Notification{},
		&models.AuditLog{},
		&models.Setting{},
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// Close releases the SQL pool and the cache client
func Close() {
	if Database.Cache != nil {
		if err := Database.Cache.Close(); err != nil {
			log.Printf("[CACHE] Close error: %v", err)
		}
	}
	if Database.Db == nil {
		return
	}
	if sqlDB, err := Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
