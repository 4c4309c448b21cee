// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode            string        `mapstructure:"GIN_MODE"`
	ServerHost         string        `mapstructure:"SERVER_HOST"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	ServerTimeout      time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// Proxies whose X-Forwarded-For is believed. Empty: the peer address is the client IP.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"` // sqlite file path or DSN
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// OAuth providers. A provider is enabled when its client ID is set.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`
	NaverClientID      string `mapstructure:"NAVER_CLIENT_ID"`
	NaverClientSecret  string `mapstructure:"NAVER_CLIENT_SECRET"`
	NaverRedirectURI   string `mapstructure:"NAVER_REDIRECT_URI"`
	KakaoClientID      string `mapstructure:"KAKAO_CLIENT_ID"`
	KakaoClientSecret  string `mapstructure:"KAKAO_CLIENT_SECRET"`
	KakaoRedirectURI   string `mapstructure:"KAKAO_REDIRECT_URI"`

	// OAuth state cookie
	OAuthStateCookieName     string `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthCookieMaxAgeMinutes int    `mapstructure:"OAUTH_COOKIE_MAX_AGE_MINUTES"`
	OAuthCookieSecure        bool   `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthCookieDomain        string `mapstructure:"OAUTH_COOKIE_DOMAIN"`
	OAuthCookieSameSite      string `mapstructure:"OAUTH_COOKIE_SAME_SITE"`
	LoginSuccessRedirect     string `mapstructure:"LOGIN_SUCCESS_REDIRECT"`
	LogoutSuccessRedirect    string `mapstructure:"LOGOUT_SUCCESS_REDIRECT"`

	// Session Configuration
	SessionDriver     string        `mapstructure:"SESSION_DRIVER"` // "memory" | "redis"
	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionSecret     string        `mapstructure:"SESSION_SECRET"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL_MINUTES"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	RedisPrefix       string        `mapstructure:"REDIS_PREFIX"`

	// Login rate limiting, per client IP
	LoginRatePerMinute int `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	LoginRateBurst     int `mapstructure:"LOGIN_RATE_BURST"`

	// Cron Jobs
	UserStatsJobSchedule string `mapstructure:"USER_STATS_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
// It does not validate: maintenance commands need only the database settings.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("TRUSTED_PROXIES", []string{})

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "blog_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "blog.db")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "http://localhost:8080/login/oauth2/code/google")
	v.SetDefault("NAVER_CLIENT_ID", "")
	v.SetDefault("NAVER_CLIENT_SECRET", "")
	v.SetDefault("NAVER_REDIRECT_URI", "http://localhost:8080/login/oauth2/code/naver")
	v.SetDefault("KAKAO_CLIENT_ID", "")
	v.SetDefault("KAKAO_CLIENT_SECRET", "")
	v.SetDefault("KAKAO_REDIRECT_URI", "http://localhost:8080/login/oauth2/code/kakao")

	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_COOKIE_MAX_AGE_MINUTES", 10)
	v.SetDefault("OAUTH_COOKIE_SECURE", false)
	v.SetDefault("OAUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_COOKIE_SAME_SITE", "Lax")
	v.SetDefault("LOGIN_SUCCESS_REDIRECT", "")
	v.SetDefault("LOGOUT_SUCCESS_REDIRECT", "/")

	v.SetDefault("SESSION_DRIVER", "memory")
	v.SetDefault("SESSION_COOKIE_NAME", "SESSION")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "blog:session")

	v.SetDefault("LOGIN_RATE_PER_MINUTE", 30)
	v.SetDefault("LOGIN_RATE_BURST", 10)

	v.SetDefault("USER_STATS_JOB_SCHEDULE", "@every 5m")
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("FATAL: SESSION_SECRET is not set. It is required to sign session cookies")
	}
	if c.GoogleClientID == "" && c.NaverClientID == "" && c.KakaoClientID == "" {
		return fmt.Errorf("FATAL: no OAuth provider configured. Set at least one of GOOGLE_CLIENT_ID, NAVER_CLIENT_ID, KAKAO_CLIENT_ID")
	}
	switch c.SessionDriver {
	case "memory", "redis":
	default:
		return fmt.Errorf("FATAL: unsupported SESSION_DRIVER %q (want memory or redis)", c.SessionDriver)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("FATAL: unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	return nil
}
