package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads a .env file if one is present. Missing files are fine; real
// deployments set the environment directly.
func Load() {
	_ = godotenv.Load()
}

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

// DatabaseURL returns the full connection URL, if configured. Takes
// precedence over the discrete DB_* variables.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// DatabaseDSN builds a Postgres DSN from the discrete DB_* variables.
func DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// RedisAddr returns the product-cache Redis address. Empty means the
// cache is disabled and every read hits the database.
func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}
