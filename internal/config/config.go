package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP
	HTTPPort       int           `env:"HTTP_PORT" default:"5000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" default:"5s"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" default:"1048576"`

	// Database
	DatabaseURL       string        `env:"DATABASE_URL" required:"true"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"30m"`
	MigrateOnStart    bool          `env:"MIGRATE_ON_START" default:"true"`

	// Authentication
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	JWTSecret         string `env:"JWT_SECRET"` // HS256 tokens for local development when no Firebase project is set
	AdminEmail        string `env:"ADMIN_EMAIL"`

	// Redis Cache
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" default:"60"`

	// Monitoring
	PrometheusEnabled bool    `env:"PROMETHEUS_ENABLED" default:"false"`
	OTelEnabled       bool    `env:"OTEL_ENABLED" default:"false"`
	OTelEndpoint      string  `env:"OTEL_ENDPOINT" default:"localhost:4317"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" default:"1.0"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env is fine, system env vars still apply
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// HTTP
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 5000); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RequestTimeout, "REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvInt64(&config.MaxBodyBytes, "MAX_BODY_BYTES", 1<<20); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxIdleConns, "DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.DBConnMaxLifetime, "DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.MigrateOnStart, "MIGRATE_ON_START", true); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvString(&config.FirebaseProjectID, "FIREBASE_PROJECT_ID", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.JWTSecret, "JWT_SECRET", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AdminEmail, "ADMIN_EMAIL", ""); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.CacheTTL, "CACHE_TTL", 60); err != nil {
		return nil, err
	}

	// Monitoring
	if err := loadEnvBool(&config.PrometheusEnabled, "PROMETHEUS_ENABLED", false); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.OTelEnabled, "OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.OTelEndpoint, "OTEL_ENDPOINT", "localhost:4317"); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.OTelSamplingRatio, "OTEL_SAMPLING_RATIO", 1.0); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	// CLIENT_URL is the single-origin form the web client deploys with
	defaultOrigins := []string{"http://localhost:3000"}
	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		defaultOrigins = []string{clientURL}
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", defaultOrigins); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// One of the two token verifiers must be configurable
	if c.FirebaseProjectID == "" {
		if c.JWTSecret == "" {
			errors = append(errors, "either FIREBASE_PROJECT_ID or JWT_SECRET must be set")
		} else if len(c.JWTSecret) < 32 {
			errors = append(errors, "JWT_SECRET should be at least 32 characters long")
		}
		if c.IsProduction() {
			errors = append(errors, "FIREBASE_PROJECT_ID is required in production")
		}
	}

	if c.CacheTTL < 0 {
		errors = append(errors, "CACHE_TTL must not be negative")
	}
	if c.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		errors = append(errors, "OTEL_SAMPLING_RATIO must be between 0 and 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// CacheDuration returns CACHE_TTL as a duration
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
