package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	Functions FunctionsConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// IdentityConfig points at the external identity provider. DevMode bypasses
// real authentication and substitutes DevUserID for all profile operations.
type IdentityConfig struct {
	BaseURL   string
	AnonKey   string
	JWTSecret string
	DevMode   bool
	DevUserID string
}

// FunctionsConfig points at the serverless function host that computes
// recommendations, report content, and chat replies.
type FunctionsConfig struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type StorageConfig struct {
	UploadPath    string
	MaxAvatarSize int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "niapath"),
		},
		Identity: IdentityConfig{
			BaseURL:   getEnv("IDENTITY_URL", "http://localhost:9999"),
			AnonKey:   getEnv("IDENTITY_ANON_KEY", ""),
			JWTSecret: getEnv("IDENTITY_JWT_SECRET", ""),
			DevMode:   getEnvAsBool("DEV_MODE", false),
			DevUserID: getEnv("DEV_USER_ID", "d3c25e6a-71a0-4b0d-a125-8e0731c06a8b"),
		},
		Functions: FunctionsConfig{
			BaseURL: getEnv("FUNCTIONS_URL", "http://localhost:9000"),
			AnonKey: getEnv("FUNCTIONS_ANON_KEY", getEnv("IDENTITY_ANON_KEY", "")),
			Timeout: getEnvAsDuration("FUNCTIONS_TIMEOUT", "60s"),
		},
		Storage: StorageConfig{
			UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
			MaxAvatarSize: getEnvAsInt64("MAX_AVATAR_SIZE", 5242880),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
