package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Anon key verification; empty disables the check
	JWTSecret string

	// Completion provider configuration
	AIProvider    string
	AIAPIKey      string
	AIBaseURL     string
	AIModel       string
	AIMaxTokens   int
	AITemperature float64
	AITopP        float64
	AITimeout     time.Duration

	// Blob store configuration
	S3Bucket        string
	AWSRegion       string
	S3Endpoint      string
	S3PublicBaseURL string

	// Rate limiting for writes and uploads
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// DatabaseURL returns the postgres connection string in URL form
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := newViper()
	cfg := fromViper(v)
	cfg.Environment = env

	switch env {
	case CI:
		// CI reads everything from the environment
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "khana")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "khana.db")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AI_PROVIDER", "together")
	v.SetDefault("AI_BASE_URL", "https://api.together.xyz")
	v.SetDefault("AI_MODEL", "meta-llama/Llama-2-7b-chat-hf")
	v.SetDefault("AI_MAX_TOKENS", 256)
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_TOP_P", 0.9)
	v.SetDefault("AI_TIMEOUT", 30*time.Second)

	v.SetDefault("S3_BUCKET_NAME", "recipe-images")

	v.SetDefault("RATE_LIMIT_WINDOW", time.Hour)
	v.SetDefault("RATE_LIMIT_MAX", 60)

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		ServerHost: v.GetString("SERVER_HOST"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		LogFormat:  v.GetString("LOG_FORMAT"),

		DBDriver:   v.GetString("DB_DRIVER"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSL_MODE"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisURL:      v.GetString("REDIS_URL"),

		JWTSecret: v.GetString("JWT_SECRET"),

		AIProvider:    v.GetString("AI_PROVIDER"),
		AIAPIKey:      v.GetString("AI_API_KEY"),
		AIBaseURL:     v.GetString("AI_BASE_URL"),
		AIModel:       v.GetString("AI_MODEL"),
		AIMaxTokens:   v.GetInt("AI_MAX_TOKENS"),
		AITemperature: v.GetFloat64("AI_TEMPERATURE"),
		AITopP:        v.GetFloat64("AI_TOP_P"),
		AITimeout:     v.GetDuration("AI_TIMEOUT"),

		S3Bucket:        v.GetString("S3_BUCKET_NAME"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Endpoint:      v.GetString("S3_ENDPOINT"),
		S3PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),

		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
	}
}

// loadSecrets fills sensitive values that were not provided through the
// environment from Docker secrets
func loadSecrets(cfg *Config) {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = readSecret(name)
		}
	}
	fill(&cfg.DBPassword, "db_password")
	fill(&cfg.RedisPassword, "redis_password")
	fill(&cfg.JWTSecret, "jwt_secret")
	fill(&cfg.AIAPIKey, "ai_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
