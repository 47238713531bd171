package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Moderation: "approved" publishes new listings immediately, "pending" queues them for review.
	ProductInitialStatus string

	// Realtime
	RealtimePersist bool
	RedisURL        string

	// Admin
	AdminEmails string

	// Server
	Port            string
	AppEnv          string
	CORSOrigins     string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Per-IP limit on register and login, per minute
	AuthRateLimitMax int

	// Logging
	LogLevel         string
	LogRetentionDays int

	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "collector_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTExpiry:  parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		BcryptCost: parseBcryptCost(getEnv("BCRYPT_COST", "12")),

		ProductInitialStatus: parseInitialStatus(getEnv("PRODUCT_INITIAL_STATUS", "approved")),

		RealtimePersist: parseBool(getEnv("REALTIME_PERSIST", "true"), true),
		RedisURL:        getEnv("REDIS_URL", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:            getEnv("PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		RateLimitMax:    parseInt(getEnv("RATE_LIMIT_MAX", "100"), 100),
		RateLimitWindow: parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),

		AuthRateLimitMax: parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "10"), 10),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseBcryptCost(s string) int {
	cost := parseInt(s, bcrypt.DefaultCost)
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

func parseInitialStatus(s string) string {
	if strings.EqualFold(s, "pending") {
		return "pending"
	}
	return "approved"
}
