package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearRefreshEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LIST_TTL_MINUTES",
		"IDENTITY_TTL_MINUTES",
		"DASHBOARD_POLL_SECONDS",
		"LIST_POLL_MINUTES",
		"ATTENDANCE_POLL_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestRefreshConfigDefaults(t *testing.T) {
	clearRefreshEnv(t)

	cfg := loadRefreshConfig()

	assert.Equal(t, 10, cfg.ListTTLMins)
	assert.Equal(t, 30, cfg.IdentityTTLMins)
	assert.Equal(t, 30, cfg.DashboardPollSecs)
	assert.Equal(t, 5, cfg.ListPollMins)
	assert.Equal(t, 5, cfg.AttendancePollSecs)
}

func TestRefreshConfigFromEnv(t *testing.T) {
	clearRefreshEnv(t)
	t.Setenv("LIST_TTL_MINUTES", "2")
	t.Setenv("ATTENDANCE_POLL_SECONDS", "15")

	cfg := loadRefreshConfig()

	assert.Equal(t, 2, cfg.ListTTLMins)
	assert.Equal(t, 15, cfg.AttendancePollSecs)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 30, cfg.IdentityTTLMins)
	assert.Equal(t, 5, cfg.ListPollMins)
}
