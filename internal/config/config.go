package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once at process start and handed to collaborators.
// Nothing below main reads the environment directly.
type Config struct {
	HTTPAddr    string
	FrontendURL string

	DBDriver string
	DBDSN    string

	AuthSecret  string
	TokenTTL    int // hours
	CORSOrigins []string

	EnableLocalAuth bool
}

// FromEnv loads .env when present and assembles the process config.
func FromEnv() Config {
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:        addr,
		FrontendURL:     envOr("FRONTEND_URL", "http://localhost:3000"),
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		AuthSecret:      envOr("JWT_SECRET", "examforge-dev-secret"),
		TokenTTL:        envIntOr("TOKEN_TTL_HOURS", 168),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000"),
		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envIntOr(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
