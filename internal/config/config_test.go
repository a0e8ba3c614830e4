package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnigo/leadbooker/internal/schedule"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "leadbooker.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "America/Montreal", cfg.DefaultTimeZone)
	assert.Equal(t, 30, cfg.DefaultDurationMin)
	assert.Equal(t, "Rendez-vous Omnigo", cfg.DefaultSummary)

	require.Len(t, cfg.WorkingHours.Windows, 2)
	assert.Equal(t, schedule.Window{Start: schedule.Clock{Hour: 9}, End: schedule.Clock{Hour: 12}}, cfg.WorkingHours.Windows[0])
	assert.Equal(t, schedule.Window{Start: schedule.Clock{Hour: 14}, End: schedule.Clock{Hour: 17}}, cfg.WorkingHours.Windows[1])
	assert.True(t, cfg.WorkingHours.Excluded(time.Saturday))
	assert.True(t, cfg.WorkingHours.Excluded(time.Sunday))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LEADBOOKER_HTTP_ADDR", ":9090")
	t.Setenv("LEADBOOKER_DATABASE_PATH", "/tmp/leadbooker-test.db")
	t.Setenv("LEADBOOKER_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LEADBOOKER_BOOKING_TIMEZONE", "Europe/Paris")
	t.Setenv("LEADBOOKER_BOOKING_DURATION_MINUTES", "45")
	t.Setenv("LEADBOOKER_BOOKING_WORKING_HOURS", "08:00-18:00")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/tmp/leadbooker-test.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Europe/Paris", cfg.DefaultTimeZone)
	assert.Equal(t, 45, cfg.DefaultDurationMin)
	require.Len(t, cfg.WorkingHours.Windows, 1)
	assert.Equal(t, schedule.Clock{Hour: 8}, cfg.WorkingHours.Windows[0].Start)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("LEADBOOKER_BOOKING_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("LEADBOOKER_BOOKING_DURATION_MINUTES", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("working hours", func(t *testing.T) {
		t.Setenv("LEADBOOKER_BOOKING_WORKING_HOURS", "12:00-09:00")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("shutdown timeout", func(t *testing.T) {
		t.Setenv("LEADBOOKER_SHUTDOWN_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
