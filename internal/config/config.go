package config

import (
	"log"
	"os"
	"strconv"

	"taskmarket/internal/auth"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	ServerPort      string
	JWTSecret       string
	UploadDir       string
	UploadURLPrefix string
	MaxUploadBytes  int64
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "taskmarket_user"),
		DBPassword:      getEnv("DB_PASSWORD", "taskmarket_pass"),
		DBName:          getEnv("DB_NAME", "taskmarket_db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", auth.DefaultSecret),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_MB", 15) * 1024 * 1024,
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
