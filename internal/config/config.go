package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionBackend  string
	QueueBackend    string
	JournalEnabled  bool
	JWTIssuer       string
	JWTSigningKey   string
	CookieSecret    string
	SessionTTL      time.Duration
	RateLimitPerMin int
}

// Production reports whether APP_ENV names a production deployment.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

// Load reads an optional .env file, then returns application config
// populated from environment variables with sensible defaults.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not read .env: %v", err)
	}
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         intEnv("REDIS_DB", 0),
		SessionBackend:  oneOf("SESSION_BACKEND", "memory", "redis"),
		QueueBackend:    oneOf("QUEUE_BACKEND", "memory", "redis"),
		JournalEnabled:  boolEnv("JOURNAL_ENABLED", true),
		JWTIssuer:       getEnv("JWT_ISSUER", "attendtrack"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		CookieSecret:    getEnv("COOKIE_SECRET", "dev-cookie-secret-change"),
		SessionTTL:      durationEnv("SESSION_TTL", 12*time.Hour),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// oneOf returns the env value if it is one of allowed, else allowed[0].
func oneOf(key string, allowed ...string) string {
	val := os.Getenv(key)
	if val == "" {
		return allowed[0]
	}
	for _, a := range allowed {
		if val == a {
			return val
		}
	}
	log.Printf("invalid value %q for %s, using %s", val, key, allowed[0])
	return allowed[0]
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			log.Printf("invalid duration for %s: %q, using fallback %s", key, val, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
