package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Catalog
		Auth
		Log
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Catalog struct {
		RetryAttempts   int           // fetch attempts before giving up
		RetryDelay      time.Duration // fixed delay between attempts
		WatchdogDelay   time.Duration // re-fetch delay after an empty result
		RefreshEnabled  bool          // periodic cache-warming refresh
		RefreshSchedule string        // cron format: "*/10 * * * *" = every 10 minutes
	}
	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // set to false for local dev without HTTPS
		CSRFKey         string
	}
	Log struct {
		Level string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")

	// Catalog fetch policy defaults
	v.SetDefault("catalog_retry_attempts", 3)
	v.SetDefault("catalog_retry_delay", "1s")
	v.SetDefault("catalog_watchdog_delay", "3s")
	v.SetDefault("catalog_refresh_enabled", false)
	v.SetDefault("catalog_refresh_schedule", "*/10 * * * *")

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_csrf_key", "") // auto-generated if empty

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			RetryAttempts:   v.GetInt("CATALOG_RETRY_ATTEMPTS"),
			RetryDelay:      v.GetDuration("CATALOG_RETRY_DELAY"),
			WatchdogDelay:   v.GetDuration("CATALOG_WATCHDOG_DELAY"),
			RefreshEnabled:  v.GetBool("CATALOG_REFRESH_ENABLED"),
			RefreshSchedule: v.GetString("CATALOG_REFRESH_SCHEDULE"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFKey:         v.GetString("AUTH_CSRF_KEY"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
