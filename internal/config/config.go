package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	APIPort         string
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string
	Debug           bool

	// Results API the front-end talks to
	ResultsAPIURL          string
	ResultsAPITimeout      time.Duration
	ResultsAPIClientID     string
	ResultsAPIClientSecret string
	ResultsAPITokenURL     string

	// Admin session
	SessionSecret   string
	SessionDuration time.Duration

	// Demo results API storage
	DatabaseType  string // sqlite, postgres, mysql
	DatabasePath  string
	DatabaseURL   string
	AdminUsername string
	AdminPassword string

	// Upload report email (Amazon SES)
	AWSRegion         string
	SESFromEmail      string
	SESFromName       string
	UploadReportEmail string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		APIPort:         getEnv("API_PORT", "5000"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		Debug:           getEnvBool("DEBUG", false),

		ResultsAPIURL:          getEnv("RESULTS_API_URL", "http://localhost:5000/api"),
		ResultsAPITimeout:      getEnvDuration("RESULTS_API_TIMEOUT", 30*time.Second),
		ResultsAPIClientID:     getEnv("RESULTS_API_CLIENT_ID", ""),
		ResultsAPIClientSecret: getEnv("RESULTS_API_CLIENT_SECRET", ""),
		ResultsAPITokenURL:     getEnv("RESULTS_API_TOKEN_URL", ""),

		SessionSecret:   getEnv("SESSION_SECRET", "bteb-results-dev-secret"),
		SessionDuration: getEnvDuration("SESSION_DURATION", 12*time.Hour),

		DatabaseType:  getEnv("DB_TYPE", "sqlite"),
		DatabasePath:  getEnv("DB_PATH", "./results.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "BTEB Results"),
		UploadReportEmail: getEnv("UPLOAD_REPORT_EMAIL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
