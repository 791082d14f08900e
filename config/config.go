package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	StorageBackend string
	StoragePath    string
	CORSOrigins    string
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:           GetEnv("PORT", "3000"),
		Env:            GetEnv("ENV", "development"),
		StorageBackend: GetEnv("STORAGE_BACKEND", "bolt"),
		StoragePath:    GetEnv("STORAGE_PATH", "./data/user-directory.db"),
		CORSOrigins:    GetEnv("CORS_ORIGINS", "*"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
