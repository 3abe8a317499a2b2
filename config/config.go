package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort        string
	DatabaseURL       string
	JWTSecret         string
	BcryptCost        int
	LogLevel          string
	ReminderInterval  time.Duration
	ImportErrorSample int
}

// DatabaseConfig holds connection pool settings for the Postgres pool.
type DatabaseConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultDatabaseConfig returns the default connection pool configuration.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		PingTimeout:     10 * time.Second,
	}
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "postgres://localhost/ipotrack?sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		BcryptCost:        getEnvInt("BCRYPT_COST", 10),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ReminderInterval:  time.Duration(getEnvInt("REMINDER_INTERVAL_MINUTES", 5)) * time.Minute,
		ImportErrorSample: getEnvInt("IMPORT_ERROR_SAMPLE", 5),
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
