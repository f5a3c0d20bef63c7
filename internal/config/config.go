package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite (default), postgres, mysql
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	TemplatesPath   string
	StaticFilesPath string
	SessionDuration time.Duration
	SessionSecret   string
	AppBaseURL      string
	Version         string

	// Email (Amazon SES).
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Media storage (S3).
	S3Bucket    string
	S3PublicURL string

	// Billing provider (hosted checkout).
	BillingBaseURL       string
	BillingAPIKey        string
	BillingWebhookSecret string

	// OAuth sign-in.
	GoogleClientID     string
	GoogleClientSecret string
	AppleClientID      string
	AppleClientSecret  string
	OAuthRedirectBase  string
}

// Load reads configuration from the environment, with a .env file applied
// first when present, and sensible defaults for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./matclub.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		SessionDuration: 24 * time.Hour,
		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
		Version:         getEnv("APP_VERSION", "dev"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnv("SES_FROM_NAME", "MatClub"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		BillingBaseURL:       os.Getenv("BILLING_BASE_URL"),
		BillingAPIKey:        os.Getenv("BILLING_API_KEY"),
		BillingWebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		AppleClientID:      os.Getenv("APPLE_CLIENT_ID"),
		AppleClientSecret:  os.Getenv("APPLE_CLIENT_SECRET"),
		OAuthRedirectBase:  os.Getenv("OAUTH_REDIRECT_BASE_URL"),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
