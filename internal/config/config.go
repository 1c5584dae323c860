package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is used when SESSION_SECRET is unset. It offers
// no protection and exists only so a development checkout runs without
// configuration; main logs a warning when it is in effect.
const DefaultSessionSecret = "dev-secret-change-me"

type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	TemplateDir   string
	StaticDir     string
}

// Load reads an optional .env file, then the environment, falling back
// to development defaults.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:          getEnv("PORT", "3000"),
		DBPath:        getEnv("DB_PATH", "data/app.db"),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		TemplateDir:   getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
