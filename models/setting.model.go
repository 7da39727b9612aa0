package models

import "gorm.io/gorm"

const (
	SettingSiteName              = "site_name"
	SettingAllowRegistration     = "allow_registration"
	SettingMaxTabSwitches        = "max_tab_switches"
	SettingQuizGraceSeconds      = "quiz_grace_seconds"
	SettingMinSecondsPerQuestion = "min_seconds_per_question"
	SettingWebhookURL            = "webhook_url"
)

type Setting struct {
	gorm.Model
	Key         string `json:"key" gorm:"size:100;uniqueIndex;not null"`
	Value       string `json:"value" gorm:"type:text"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public" gorm:"default:false"`
	UpdatedBy   *uint  `json:"updated_by"`
}

// DefaultSettings are seeded on startup and define the set of known keys
var DefaultSettings = []Setting{
	{Key: SettingSiteName, Value: "LMS", Description: "Display name of the platform", IsPublic: true},
	{Key: SettingAllowRegistration, Value: "true", Description: "Allow students to self-register", IsPublic: true},
	{Key: SettingMaxTabSwitches, Value: "3", Description: "Tab switches before a quiz attempt is flagged"},
	{Key: SettingQuizGraceSeconds, Value: "30", Description: "Grace period after a quiz time limit"},
	{Key: SettingMinSecondsPerQuestion, Value: "2", Description: "Minimum plausible seconds per question"},
	{Key: SettingWebhookURL, Value: "", Description: "Endpoint receiving notification events"},
}
