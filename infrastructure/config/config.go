package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process-wide configuration. It is loaded once at startup
// and treated as read-only for the process lifetime.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI keyed on bookingReference
	EventBusName  string // empty disables integration events

	// Observability
	LogLevel         string
	MetricsNamespace string
	EnableMetrics    bool
	EnableTracing    bool
	EnableCORS       bool

	// Authentication for the tools API (not store credentials; those come
	// from the AWS default chain)
	JWTSecret string
	JWTIssuer string
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func LoadConfig() (*Config, error) {
	// Same convention as the deployment tooling; absence is fine.
	_ = godotenv.Load()

	tableName := getEnv("DYNAMODB_TABLE_NAME", "")

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: tableName,
		IndexName:     getEnv("INDEX_NAME", tableName+"-index"),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "SkyDesk/BookingTools"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "skydesk"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE_NAME is required")
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether this process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
