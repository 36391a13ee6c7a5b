package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed into constructors; nothing below main reads the
// environment.
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresURI string

	// MongoDB (callback audit log)
	MongoURI string
	MongoDB  string

	// Payment gateway
	LiqPayPrivateKey string

	// Admin broadcast
	AdminSecret string

	// Push delivery
	PushProvider   string // "expo" or "fcm"
	ExpoPushURL    string
	PushChunkSize  int
	FCMCredentials string // path to a service-account JSON file
	FCMProjectID   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", "postgres://localhost:5432/telecare?sslmode=disable"),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "telecare"),

		LiqPayPrivateKey: getEnv("LIQPAY_PRIVATE_KEY", ""),
		AdminSecret:      getEnv("ADMIN_BROADCAST_SECRET", ""),

		PushProvider:   getEnv("PUSH_PROVIDER", "expo"),
		ExpoPushURL:    getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		PushChunkSize:  getEnvAsInt("PUSH_CHUNK_SIZE", 100),
		FCMCredentials: getEnv("FCM_CREDENTIALS_FILE", ""),
		FCMProjectID:   getEnv("FCM_PROJECT_ID", ""),
	}

	if config.LiqPayPrivateKey == "" {
		return nil, errors.New("LIQPAY_PRIVATE_KEY is required")
	}
	if config.AdminSecret == "" {
		return nil, errors.New("ADMIN_BROADCAST_SECRET is required")
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
