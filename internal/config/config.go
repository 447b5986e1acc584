package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional env var with a default.
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	season, err := strconv.Atoi(getEnv("SEASON"))
	if err != nil {
		log.Fatalf("Error: SEASON must be an integer: %s", err)
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		AdminToken:    getEnv("ADMIN_TOKEN"),
		ProjectID:     getEnv("GCP_PROJECT"),
		League: LeagueConfig{
			ID:     getEnv("LEAGUE_ID"),
			Season: season,
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnvOr("UPSTREAM_BASE_URL", "https://api.cartola.globo.com"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL"),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN"),
		},
	}
	return cfg
}
