package utils

import (
	"lms/config"

	"github.com/rollbar/rollbar-go"
)

var rollbarEnabled bool

// InitErrorReporting configures Rollbar when ROLLBAR_TOKEN is set
func InitErrorReporting(cfg *config.Config) {
	if cfg.RollbarToken == "" {
		return
	}
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.AppEnv)
	rollbar.SetServerRoot("lms")
	rollbarEnabled = true
}

// ReportError forwards an unexpected error to Rollbar, if enabled
func ReportError(err error, extras map[string]interface{}) {
	if !rollbarEnabled || err == nil {
		return
	}
	rollbar.Error(err, extras)
}

// FlushErrorReporting blocks until queued reports are sent
func FlushErrorReporting() {
	if rollbarEnabled {
		rollbar.Wait()
	}
}
