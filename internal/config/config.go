package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting list values
	"time"    // For token lifetimes

	"github.com/joho/godotenv" // For loading .env files
)

// Default values used when the environment leaves a setting empty
const (
	DefaultPort       = "3000"
	DefaultTokenTTL   = 24 * time.Hour
	DefaultBcryptCost = 12
	DefaultRateLimit  = 5
	DefaultRateBurst  = 10
)

// DefaultAllowedOrigins are the front-end origins accepted when CORS_ALLOWED_ORIGINS is unset
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// Config holds the application configuration
type Config struct {
	AppPort        string        // Application port
	DatabaseURL    string        // Full store connection URL (mysql:// or postgres://)
	DBUser         string        // Database user
	DBPassword     string        // Database password
	DBHost         string        // Database host
	DBPort         string        // Database port
	DBName         string        // Database name
	JWTSecret      string        // JWT secret key
	TokenTTL       time.Duration // Lifetime of issued tokens
	BcryptCost     int           // bcrypt work factor
	RedisAddr      string        // Redis server address, empty disables caching
	RedisPass      string        // Redis password
	RedisDB        int           // Redis database number
	AllowedOrigins []string      // CORS allowlist
	AuthRateLimit  int           // Sign-in/sign-up requests per second per client IP
	AuthRateBurst  int           // Burst allowance for the auth limiter
	IsProd         bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function
func FromEnv(getenv func(string) string) *Config {
	redisDB, _ := strconv.Atoi(getenv("REDIS_DB"))
	port := getenv("PORT") // PORT wins over the legacy APP_PORT
	if port == "" {
		port = getenv("APP_PORT")
	}
	if port == "" {
		port = DefaultPort
	}
	return &Config{
		AppPort:        port,
		DatabaseURL:    getenv("DATABASE_URL"),
		DBUser:         getenv("DB_USER"),
		DBPassword:     getenv("DB_PASSWORD"),
		DBHost:         getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT"),
		DBName:         getenv("DB_NAME"),
		JWTSecret:      getenv("JWT_SECRET"),
		TokenTTL:       durationOr(getenv("JWT_TTL"), DefaultTokenTTL),
		BcryptCost:     intOr(getenv("BCRYPT_COST"), DefaultBcryptCost),
		RedisAddr:      getenv("REDIS_ADDR"),
		RedisPass:      getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		AllowedOrigins: listOr(getenv("CORS_ALLOWED_ORIGINS"), DefaultAllowedOrigins),
		AuthRateLimit:  intOr(getenv("AUTH_RATE_LIMIT"), DefaultRateLimit),
		AuthRateBurst:  intOr(getenv("AUTH_RATE_BURST"), DefaultRateBurst),
		IsProd:         getenv("IS_PROD") == "true",
	}
}

// MySQLDSN builds a DSN from the discrete DB_* settings
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func intOr(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func listOr(raw string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
