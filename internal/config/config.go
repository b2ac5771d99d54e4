package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Library
		Owner
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration for the login endpoint
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}

	Library struct {
		LoanPeriodDays int   // Due date offset applied to new loans
		MaxUploadBytes int64 // Upper bound for cover / profile picture uploads
	}

	// Owner describes the seeded owner account. Owner identities are never
	// minted through the API; they exist only via this seed.
	Owner struct {
		Email    string
		Password string
		Fname    string
		Lname    string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 10)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)   // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Library defaults
	v.SetDefault("loan_period_days", DefaultLoanPeriodDays)
	v.SetDefault("max_upload_megabytes", 10)

	// Owner seed defaults (disabled unless both email and password are set)
	v.SetDefault("owner_email", "")
	v.SetDefault("owner_password", "")
	v.SetDefault("owner_fname", "Library")
	v.SetDefault("owner_lname", "Owner")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Library: Library{
			LoanPeriodDays: v.GetInt("LOAN_PERIOD_DAYS"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_MEGABYTES") << 20,
		},
		Owner: Owner{
			Email:    v.GetString("OWNER_EMAIL"),
			Password: v.GetString("OWNER_PASSWORD"),
			Fname:    v.GetString("OWNER_FNAME"),
			Lname:    v.GetString("OWNER_LNAME"),
		},
	}
}
