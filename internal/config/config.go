package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireMinutes is the token lifetime in minutes (default 60). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int

	// Env is "dev" (default) or "prod".
	Env string

	// ImageDir is the directory uploaded images are stored in and served from.
	ImageDir string

	// MaxUploadBytes caps the request body size; must leave room for an image upload (default 10 MiB).
	MaxUploadBytes int64

	// SweepCron is the schedule for the orphaned-image sweep (default hourly).
	// Empty disables the sweep.
	SweepCron string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS, or ["*"] for any.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). Default "*", matching the
	// browser client this API was built for.
	CORSAllowedOrigins []string
}

func Load() Config {
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "blog"),
		DBUser: getEnv("DB_USER", "bloguser"),
		DBPass: getEnv("DB_PASS", "blogpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:        getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60),

		Env: getEnv("ENV", "dev"),

		ImageDir:       getEnv("IMAGE_DIR", "images"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		SweepCron: getEnv("SWEEP_CRON", "@hourly"),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
