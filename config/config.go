package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Booking limits enforced by the booking controllers.
const (
	// MaxBookingDurationMinutes is the sanity bound on a single session.
	MaxBookingDurationMinutes = 480
	// MaxDocumentsPerRequest caps how many files one upload request may carry.
	MaxDocumentsPerRequest = 5
	// MaxDocumentSizeBytes caps the size of a single uploaded document.
	MaxDocumentSizeBytes = 10 << 20
)

type Config struct {
	Env         string
	HTTPPort    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	CatalogTTL    time.Duration

	JWTSecret      string
	GoogleClientID string

	StripeSecretKey     string
	StripeWebhookSecret string

	// RequirePaidCompletion gates completeBooking on paymentStatus=paid.
	RequirePaidCompletion bool
}

// App holds the loaded configuration for the running process.
var App Config

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using environment variables directly")
	}

	cfg := Config{
		Env:                   getEnv("APP_ENV", "dev"),
		HTTPPort:              getEnv("HTTP_PORT", "8000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		CatalogTTL:            getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		JWTSecret:             getEnv("JWT_SECRET", "solid_secret_key"),
		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		StripeSecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		RequirePaidCompletion: getBool("REQUIRE_PAID_COMPLETION", false),
	}
	App = cfg
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid bool for %s=%q, using default %v", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		log.Printf("invalid duration for %s=%q, using default %s", key, v, def)
	}
	return def
}
