package config

import (
	"os"
)

type Config struct {
	AppPort string
	AppEnv  string

	LogLevel string

	RedisURL    string
	DatabaseDSN string

	SessionSecret Secret
	CSRFSecret    Secret
	JWTSecret     Secret
}

func Load() Config {

	cfg := Config{

		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		SessionSecret: ResolveSecret("SESSION_SECRET", "JWT_SECRET", defaultSessionSecret),
		CSRFSecret:    ResolveSecret("CSRF_SECRET", "JWT_SECRET", defaultCSRFSecret),
		JWTSecret:     ResolveSecret("JWT_SECRET", "", defaultJWTSecret),
	}

	return cfg

}

// IsProduction reports whether the process runs with production hardening
// (Secure cookies, JSON logs, no insecure default secrets).
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
