package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env when GO_ENV is unset or development.
// A missing .env file is not an error; the process environment is used as-is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int

	// Database
	DB_DRIVER    string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	DB_PATH      string

	// JWT
	JWT_SECRET     string
	JWT_ISSUER     string
	JWT_EXPIRES_IN time.Duration

	// Redis
	REDIS_URL string

	// HTTP security
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration

	// Logging
	LOG_LEVEL  string
	LOG_FORMAT string

	CRON_ENABLED bool

	// S3-compatible storage for event images
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_CDN_URL    string

	// Default admin seed
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
	ADMIN_NAME     string
	ADMIN_COLLEGE  string
}

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5000
	}

	expiresIn, err := time.ParseDuration(getEnvOrDefault("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		return nil, errors.New("JWT_EXPIRES_IN must be a duration such as 24h")
	}

	rateLimitRequests, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT_REQUESTS", "100"))
	if err != nil {
		return nil, errors.New("RATE_LIMIT_REQUESTS must be an integer")
	}

	rateLimitWindow, err := time.ParseDuration(getEnvOrDefault("RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		return nil, errors.New("RATE_LIMIT_WINDOW must be a duration such as 15m")
	}

	envVariables := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,

		DB_DRIVER:    getEnvOrDefault("DB_DRIVER", "postgres"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		DB_PATH:      getEnvOrDefault("DB_PATH", "campus_events.db"),

		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		JWT_ISSUER:     getEnvOrDefault("JWT_ISSUER", "campus-events-api"),
		JWT_EXPIRES_IN: expiresIn,

		REDIS_URL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		ALLOWED_ORIGINS:     getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		RATE_LIMIT_REQUESTS: rateLimitRequests,
		RATE_LIMIT_WINDOW:   rateLimitWindow,

		LOG_LEVEL:  getEnvOrDefault("LOG_LEVEL", "info"),
		LOG_FORMAT: getEnvOrDefault("LOG_FORMAT", "json"),

		CRON_ENABLED: os.Getenv("CRON_ENABLED") != "false", // Default to enabled

		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_CDN_URL:    os.Getenv("SPACES_CDN_URL"),

		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		ADMIN_NAME:     getEnvOrDefault("ADMIN_NAME", "Admin User"),
		ADMIN_COLLEGE:  getEnvOrDefault("ADMIN_COLLEGE", "Default College"),
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
