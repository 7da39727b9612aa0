package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/validators"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ImportRow is one CSV line; the validate tags mirror the admin create-user rules
type ImportRow struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Role     string `json:"role" validate:"required,oneof=ADMIN INSTRUCTOR STUDENT"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func main() {
	path := flag.String("file", "users.csv", "CSV with columns name,email,role,password")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()
	defer database.Close()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"name", "email", "role", "password"} {
		if _, ok := headerIndex[col]; !ok {
			log.Fatalf("CSV is missing column %q", col)
		}
	}

	inserted, updated, skipped := 0, 0, 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("Line %d: %v", line, err)
			skipped++
			continue
		}

		row := ImportRow{
			Name:     strings.TrimSpace(record[headerIndex["name"]]),
			Email:    strings.ToLower(strings.TrimSpace(record[headerIndex["email"]])),
			Role:     strings.ToUpper(strings.TrimSpace(record[headerIndex["role"]])),
			Password: record[headerIndex["password"]],
		}
		if errs := validators.ValidateStruct(&row); len(errs) > 0 {
			log.Printf("Line %d (%s) skipped: %v", line, row.Email, errs)
			skipped++
			continue
		}

		created, err := upsertUser(row)
		if err != nil {
			log.Printf("Line %d (%s) failed: %v", line, row.Email, err)
			skipped++
			continue
		}
		if created {
			inserted++
		} else {
			updated++
		}
	}

	log.Printf("Import finished: %d inserted, %d updated, %d skipped", inserted, updated, skipped)
}

func upsertUser(row ImportRow) (bool, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(row.Password), config.AppConfig.SaltRound)
	if err != nil {
		return false, err
	}

	db := database.Database.Db
	var user models.User
	err = db.Where("email = ?", row.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:     row.Name,
			Email:    row.Email,
			Password: string(hashed),
			Role:     row.Role,
			IsActive: true,
		}
		return true, db.Create(&user).Error
	}
	if err != nil {
		return false, err
	}

	return false, db.Model(&user).Updates(map[string]interface{}{
		"name":       row.Name,
		"role":       row.Role,
		"password":   string(hashed),
		"is_active":  true,
		"is_deleted": false,
	}).Error
}
