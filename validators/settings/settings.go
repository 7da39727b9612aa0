package settingsValidator

import (
	"net/url"
	"strconv"
	"strings"

	"lms/models"
	"lms/utils"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1"`
}

// numericSettings must hold non-negative integers
var numericSettings = map[string]bool{
	models.SettingMaxTabSwitches:        true,
	models.SettingQuizGraceSeconds:      true,
	models.SettingMinSecondsPerQuestion: true,
}

func (r *UpdateSettingsRequest) Normalize() map[string]string {
	errors := make(map[string]string)
	for key, value := range r.Settings {
		value = strings.TrimSpace(value)
		r.Settings[key] = value

		switch {
		case !utils.IsKnownSetting(key):
			errors[key] = "Unknown setting!"
		case numericSettings[key]:
			if n, err := strconv.Atoi(value); err != nil || n < 0 {
				errors[key] = "Must be a non-negative integer!"
			}
		case key == models.SettingAllowRegistration:
			if _, err := strconv.ParseBool(value); err != nil {
				errors[key] = "Must be true or false!"
			}
		case key == models.SettingWebhookURL:
			if value == "" {
				continue
			}
			if u, err := url.ParseRequestURI(value); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errors[key] = "Must be an http(s) URL!"
			}
		case key == models.SettingSiteName:
			if value == "" || len(value) > 100 {
				errors[key] = "Must be between 1 and 100 characters!"
			}
		}
	}
	return errors
}

func UpdateSettings() fiber.Handler {
	return validators.ValidateBody[UpdateSettingsRequest]("validatedSettings")
}
