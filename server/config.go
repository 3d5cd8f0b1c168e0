package server

import (
	"os"
	"strconv"
)

// Config конфигурация веб-сервера каталога. Загружается из переменных
// окружения; значения по умолчанию подходят для локального запуска.
type Config struct {
	Port            string
	DatabasePath    string
	AdminToken      string
	LegacyMediaBase string
	UploadsDir      string
	RateLimitRPS    float64
	SeedDemo        bool
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "./catalog.db"),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		LegacyMediaBase: getEnv("LEGACY_MEDIA_BASE", ""),
		UploadsDir:      getEnv("UPLOADS_DIR", "static/uploads"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		SeedDemo:        getEnvBool("SEED_DEMO", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
