package settingsValidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSettingsNormalize(t *testing.T) {
	r := &UpdateSettingsRequest{Settings: map[string]string{
		"site_name":          "  Academy ",
		"allow_registration": "false",
		"max_tab_switches":   "5",
		"webhook_url":        "",
	}}
	assert.Empty(t, r.Normalize())
	assert.Equal(t, "Academy", r.Settings["site_name"])

	bad := &UpdateSettingsRequest{Settings: map[string]string{
		"unknown_key":        "x",
		"quiz_grace_seconds": "-1",
		"allow_registration": "maybe",
		"webhook_url":        "ftp://example.com/hook",
		"site_name":          " ",
	}}
	errs := bad.Normalize()
	assert.Len(t, errs, 5)
	for _, key := range []string{"unknown_key", "quiz_grace_seconds", "allow_registration", "webhook_url", "site_name"} {
		assert.Contains(t, errs, key)
	}
}
