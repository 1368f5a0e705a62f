package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DefaultPaymentMethods is used when PAYMENT_METHODS is not set
var DefaultPaymentMethods = []string{"Cash on Delivery", "Online Payment", "Bank Transfer"}

// Config holds all application configuration
type Config struct {
	DatabaseURL         string
	Port                string
	GoEnv               string
	JWTSecret           string
	JWTIssuer           string
	JWTAudience         string
	SessionTTL          time.Duration
	RedisURL            string
	DBTimeout           time.Duration
	DeliveryCharge      decimal.Decimal
	PaymentMethods      []string
	AWSRegion           string
	AWSS3Bucket         string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	PostmarkServerToken string
	EmailSender         string
	AdminUsername       string
	AdminPassword       string
	CORSOrigins         []string
	LogLevel            string
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			slog.Info("no .env file found, using system environment variables")
		}
	} else {
		slog.Info("loaded configuration", "file", envFile)
	}

	deliveryCharge, err := decimal.NewFromString(getEnv("DELIVERY_CHARGE", "100.00"))
	if err != nil {
		return nil, fmt.Errorf("DELIVERY_CHARGE is not a decimal: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL is not a duration: %w", err)
	}
	dbTimeout, err := time.ParseDuration(getEnv("DB_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("DB_TIMEOUT is not a duration: %w", err)
	}

	config := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		Port:                getEnv("PORT", "8080"),
		GoEnv:               getEnv("GO_ENV", "development"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", "fashion-mart"),
		JWTAudience:         getEnv("JWT_AUDIENCE", "fashion-mart-api"),
		SessionTTL:          sessionTTL,
		RedisURL:            getEnv("REDIS_URL", ""),
		DBTimeout:           dbTimeout,
		DeliveryCharge:      deliveryCharge,
		PaymentMethods:      splitList(getEnv("PAYMENT_METHODS", ""), DefaultPaymentMethods),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:         getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		PostmarkServerToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
		EmailSender:         getEnv("EMAIL_SENDER", "orders@fashionmart.local"),
		AdminUsername:       getEnv("ADMIN_USERNAME", ""),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", ""), []string{"*"}),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Development and test runs get a throwaway signing key
	if config.JWTSecret == "" {
		config.JWTSecret = "dev-secret-change-me"
	}

	current = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.DeliveryCharge.IsNegative() {
		return fmt.Errorf("DELIVERY_CHARGE must not be negative")
	}
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("PAYMENT_METHODS must name at least one method")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether product images go to S3 instead of local disk
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// Default returns the settings Load uses when the environment is empty
func Default() *Config {
	return &Config{
		Port:           "8080",
		GoEnv:          "development",
		JWTSecret:      "dev-secret-change-me",
		JWTIssuer:      "fashion-mart",
		JWTAudience:    "fashion-mart-api",
		SessionTTL:     24 * time.Hour,
		DBTimeout:      5 * time.Second,
		DeliveryCharge: decimal.NewFromInt(100),
		PaymentMethods: append([]string(nil), DefaultPaymentMethods...),
		AWSRegion:      "us-east-1",
		EmailSender:    "orders@fashionmart.local",
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
	}
}

// GetConfig returns the configuration loaded last, or Default if none was
func GetConfig() *Config {
	if current == nil {
		return Default()
	}
	return current
}

// SetConfig replaces the current configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
