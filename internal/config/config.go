package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Mongo        MongoConfig
	Storage      StorageConfig
	Logger       LoggerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// MongoConfig holds document-store connection values.
type MongoConfig struct {
	URI                     string
	Database                string
	ServerSelectionTimeoutS int
	ConnectTimeoutS         int
	SocketTimeoutS          int
	MaxConnectAttempts      int
	RetryDelayS             int
}

// StorageConfig holds S3-compatible object storage values.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	DefaultBucket   string
	EndpointURL     string
	PublicBaseURL   string
	Enabled         bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "qa-admin-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Mongo: MongoConfig{
			URI:                     os.Getenv("MONGO_URI"),
			Database:                getEnv("MONGO_DATABASE", "qa_admin"),
			ServerSelectionTimeoutS: getEnvAsInt("MONGO_SERVER_SELECTION_TIMEOUT_SECONDS", 5),
			ConnectTimeoutS:         getEnvAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
			SocketTimeoutS:          getEnvAsInt("MONGO_SOCKET_TIMEOUT_SECONDS", 10),
			MaxConnectAttempts:      getEnvAsInt("MONGO_MAX_CONNECT_ATTEMPTS", 5),
			RetryDelayS:             getEnvAsInt("MONGO_RETRY_DELAY_SECONDS", 3),
		},
		Storage: StorageConfig{
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			DefaultBucket:   getEnv("S3_DEFAULT_BUCKET", "test-report-bucket"),
			EndpointURL:     os.Getenv("S3_ENDPOINT_URL"),
			PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
			Enabled:         getEnvAsBool("S3_ENABLED", false),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Storage.Enabled {
		if cfg.Storage.AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID is required when object storage is enabled")
		}
		if cfg.Storage.SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY is required when object storage is enabled")
		}
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ServerSelectionTimeout returns the mongo server selection timeout.
func (m MongoConfig) ServerSelectionTimeout() time.Duration {
	return time.Duration(m.ServerSelectionTimeoutS) * time.Second
}

// ConnectTimeout returns the mongo initial-connect timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	return time.Duration(m.ConnectTimeoutS) * time.Second
}

// SocketTimeout returns the mongo socket operation timeout.
func (m MongoConfig) SocketTimeout() time.Duration {
	return time.Duration(m.SocketTimeoutS) * time.Second
}

// RetryDelay returns the pause between connection attempts.
func (m MongoConfig) RetryDelay() time.Duration {
	return time.Duration(m.RetryDelayS) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
