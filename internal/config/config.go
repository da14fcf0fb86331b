package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Mail     MailConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// AuthConfig holds session and token configuration
type AuthConfig struct {
	JWTSecret            string
	AccessExpiry         time.Duration
	RefreshExpiry        time.Duration
	SessionExpiry        time.Duration
	ResetTokenExpiry     time.Duration
	SessionEncryptionKey string
	BaseURL              string
	RateLimitRPS         int
	RateLimitBurst       int
	SignInRateLimitRPS   int
	SignInRateLimitBurst int
}

// MailConfig holds outgoing email configuration
type MailConfig struct {
	FromEmail string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvAsInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "moneta"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:         getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry:        getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			SessionExpiry:        getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
			ResetTokenExpiry:     getEnvAsDuration("RESET_TOKEN_EXPIRY", time.Hour),
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
			RateLimitRPS:         getEnvAsInt("AUTH_RATE_LIMIT_RPS", 20),
			RateLimitBurst:       getEnvAsInt("AUTH_RATE_LIMIT_BURST", 20),
			SignInRateLimitRPS:   getEnvAsInt("SIGNIN_RATE_LIMIT_RPS", 5),
			SignInRateLimitBurst: getEnvAsInt("SIGNIN_RATE_LIMIT_BURST", 5),
		},
		Mail: MailConfig{
			FromEmail: getEnv("FROM_EMAIL", "noreply@moneta.dev"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
