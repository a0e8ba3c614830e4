// Package config loads the process configuration from the environment. It is
// resolved once at startup and injected explicitly; nothing deeper in the
// call graph reads the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/omnigo/leadbooker/internal/schedule"
)

type Config struct {
	HTTPAddr        string
	DatabasePath    string
	ShutdownTimeout time.Duration
	LogLevel        string

	// Google credential files. The oauth file backs the connect flow, the
	// service-account file backs impersonation; at least one must be set.
	GoogleOAuthCredentialsFile string
	GoogleServiceAccountFile   string

	// Booking defaults, overridable per request.
	DefaultTimeZone    string
	DefaultDurationMin int
	DefaultSummary     string
	WorkingHours       schedule.WorkingHours
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADBOOKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.path", "leadbooker.db")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("google.oauth_credentials_file", "")
	v.SetDefault("google.service_account_file", "")
	v.SetDefault("booking.timezone", "America/Montreal")
	v.SetDefault("booking.duration_minutes", 30)
	v.SetDefault("booking.summary", "Rendez-vous Omnigo")
	v.SetDefault("booking.working_hours", "09:00-12:00,14:00-17:00")

	_ = v.BindEnv("http.addr", "LEADBOOKER_HTTP_ADDR", "HTTP_ADDR")
	_ = v.BindEnv("database.path", "LEADBOOKER_DATABASE_PATH", "DATABASE_PATH")
	_ = v.BindEnv("shutdown.timeout", "LEADBOOKER_SHUTDOWN_TIMEOUT")
	_ = v.BindEnv("log.level", "LEADBOOKER_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("google.oauth_credentials_file", "LEADBOOKER_GOOGLE_OAUTH_CREDENTIALS_FILE", "GOOGLE_OAUTH_CREDENTIALS_FILE")
	_ = v.BindEnv("google.service_account_file", "LEADBOOKER_GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_SERVICE_ACCOUNT_FILE")
	_ = v.BindEnv("booking.timezone", "LEADBOOKER_BOOKING_TIMEZONE")
	_ = v.BindEnv("booking.duration_minutes", "LEADBOOKER_BOOKING_DURATION_MINUTES")
	_ = v.BindEnv("booking.summary", "LEADBOOKER_BOOKING_SUMMARY")
	_ = v.BindEnv("booking.working_hours", "LEADBOOKER_BOOKING_WORKING_HOURS")

	timeout, err := time.ParseDuration(v.GetString("shutdown.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("config: shutdown timeout: %w", err)
	}

	timeZone := v.GetString("booking.timezone")
	if _, err := time.LoadLocation(timeZone); err != nil {
		return Config{}, fmt.Errorf("config: unknown timezone %q", timeZone)
	}

	durationMin := v.GetInt("booking.duration_minutes")
	if durationMin <= 0 {
		return Config{}, fmt.Errorf("config: booking duration must be positive, got %d", durationMin)
	}

	windows, err := schedule.ParseWindows(v.GetString("booking.working_hours"))
	if err != nil {
		return Config{}, fmt.Errorf("config: working hours: %w", err)
	}
	hours := schedule.DefaultWorkingHours()
	hours.Windows = windows

	return Config{
		HTTPAddr:        strings.TrimSpace(v.GetString("http.addr")),
		DatabasePath:    v.GetString("database.path"),
		ShutdownTimeout: timeout,
		LogLevel:        v.GetString("log.level"),

		GoogleOAuthCredentialsFile: v.GetString("google.oauth_credentials_file"),
		GoogleServiceAccountFile:   v.GetString("google.service_account_file"),

		DefaultTimeZone:    timeZone,
		DefaultDurationMin: durationMin,
		DefaultSummary:     v.GetString("booking.summary"),
		WorkingHours:       hours,
	}, nil
}
