package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Media     MediaConfig
	AWS       AWSConfig
	Bootstrap BootstrapConfig
	Security  SecurityConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/reel?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. It is
// public, so it is only fit for local development.
const DefaultSessionSecret = "change-me-in-production"

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	Store      string // "redis" or "memory"
	Secret     string
	CookieName string
	TTLHours   int
	Secure     bool
}

// MediaConfig holds uploaded video storage settings.
type MediaConfig struct {
	Backend     string // "local" or "s3"
	Dir         string // local root; served under URLPrefix
	URLPrefix   string
	MaxFileSize int64
}

// AWSConfig holds AWS credentials and the media bucket.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	MediaBucket     string
}

// BootstrapConfig is the first developer account created by cmd/bootstrap.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
}

// SecurityConfig holds password hashing settings.
type SecurityConfig struct {
	BcryptCost int
}

// UsesDefaultSecret reports whether cookies are signed with DefaultSessionSecret.
func (c SessionConfig) UsesDefaultSecret() bool {
	return c.Secret == DefaultSessionSecret
}

// UseRedisSessions reports whether sessions are kept in Redis.
func (c SessionConfig) UseRedisSessions() bool {
	return strings.EqualFold(c.Store, "redis")
}

// UseS3 reports whether uploaded media goes to S3.
func (c MediaConfig) UseS3() bool {
	return strings.EqualFold(c.Backend, "s3")
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 120),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "reel"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "memory"),
			Secret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			CookieName: getEnv("SESSION_COOKIE", "reel.sid"),
			TTLHours:   getEnvInt("SESSION_TTL_HOURS", 24),
			Secure:     getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Media: MediaConfig{
			Backend:     getEnv("MEDIA_BACKEND", "local"),
			Dir:         getEnv("UPLOAD_DIR", "uploads"),
			URLPrefix:   getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE", 100*1024*1024)),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			MediaBucket:     getEnv("AWS_S3_MEDIA_BUCKET", "reel-media"),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "Admin@123"),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
	}
	if cfg.Session.TTLHours <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", cfg.Session.TTLHours)
	}
	if cfg.Session.Secure && cfg.Session.UsesDefaultSecret() {
		return nil, fmt.Errorf("SESSION_SECRET must be set when SESSION_COOKIE_SECURE is enabled")
	}
	if cfg.Media.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", cfg.Media.MaxFileSize)
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
