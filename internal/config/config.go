package config

import (
	"os"
	"time"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string

	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Google Drive storage for the business-profile logo (optional)
	GDriveCredentialsPath string
	GDriveTokenPath       string
	GDriveFolderID        string
}

func Load() *Config {
	return &Config{
		Environment:           getEnv("ENVIRONMENT", "dev"),
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AccessTokenExpiry:     getDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry:    getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		GDriveCredentialsPath: getEnv("GDRIVE_CREDENTIALS_PATH", ""),
		GDriveTokenPath:       getEnv("GDRIVE_TOKEN_PATH", ""),
		GDriveFolderID:        getEnv("GDRIVE_FOLDER_ID", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
