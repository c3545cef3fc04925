package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Log
		Catalog
		Sessions
		CSRF
		Tasks
		Integrity
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Log struct {
		Level       string
		Development bool
	}
	Catalog struct {
		CollationLocale string // BCP 47 tag used to sort book titles
	}
	Sessions struct {
		Enabled       bool
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	CSRF struct {
		Enabled bool
		Secret  string // hex or raw; generated at startup when empty
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Integrity struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Audit struct {
		Enabled       bool
		RetentionDays int // events older than this are purged by the cleanup task
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("collation_locale", DefaultCollationLocale)

	v.SetDefault("sessions_enabled", true)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", true) // HTTPS-only cookies

	v.SetDefault("csrf_enabled", true)
	v.SetDefault("csrf_secret", "") // Auto-generated if empty

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("integrity_check_enabled", true)
	v.SetDefault("integrity_schedule", "0 * * * *") // Hourly at :00

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Catalog: Catalog{
			CollationLocale: v.GetString("COLLATION_LOCALE"),
		},
		Sessions: Sessions{
			Enabled:       v.GetBool("SESSIONS_ENABLED"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		CSRF: CSRF{
			Enabled: v.GetBool("CSRF_ENABLED"),
			Secret:  v.GetString("CSRF_SECRET"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Integrity: Integrity{
			Enabled:  v.GetBool("INTEGRITY_CHECK_ENABLED"),
			Schedule: v.GetString("INTEGRITY_SCHEDULE"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
