package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	UploadDir     string
	TemplatesDir  string
	Environment   string
	MaxUploadMB   int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// Containers pass env vars directly, so a missing .env is fine
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "hellfire.db"),
		SessionSecret: getEnv("SESSION_SECRET", "hellfire-key-change-me"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		TemplatesDir:  getEnv("TEMPLATES_DIR", "web/templates"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the largest profile picture accepted.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}
