package utils

import (
	"log"
	"strconv"

	"lms/database"
	"lms/models"
)

// Re-exported so callers outside models read naturally
const (
	SettingSiteName              = models.SettingSiteName
	SettingAllowRegistration     = models.SettingAllowRegistration
	SettingMaxTabSwitches        = models.SettingMaxTabSwitches
	SettingQuizGraceSeconds      = models.SettingQuizGraceSeconds
	SettingMinSecondsPerQuestion = models.SettingMinSecondsPerQuestion
	SettingWebhookURL            = models.SettingWebhookURL
)

// GetSetting returns the stored value, or the seeded default when missing
func GetSetting(key string) string {
	var setting models.Setting
	if database.Database.Db != nil {
		if err := database.Database.Db.Where(&models.Setting{Key: key}).First(&setting).Error; err == nil {
			return setting.Value
		}
	}
	for _, s := range models.DefaultSettings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// GetSettingInt parses a numeric setting, using def when unparsable
func GetSettingInt(key string, def int) int {
	raw := GetSetting(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Setting %s has non-numeric value %q", key, raw)
		return def
	}
	return v
}

// GetSettingBool parses a boolean setting, using def when unparsable
func GetSettingBool(key string, def bool) bool {
	v, err := strconv.ParseBool(GetSetting(key))
	if err != nil {
		return def
	}
	return v
}

// IsKnownSetting reports whether key is one of the seeded settings
func IsKnownSetting(key string) bool {
	for _, s := range models.DefaultSettings {
		if s.Key == key {
			return true
		}
	}
	return false
}

func siteName() string {
	name := GetSetting(SettingSiteName)
	if name == "" {
		return "LMS"
	}
	return name
}
