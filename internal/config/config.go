package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment string
	HTTPPort    string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	AdminEmail    string
	AdminPassword string

	ResendAPIKey string
	MailFrom     string

	AbstractEmailAPIKey string
	UseEmailReputation  bool

	MidtransServerKey string

	S3Region       string
	S3Bucket       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	AuthRatePerMinute int
	AuthRateBurst     int

	OTPSweepInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPPort:    getEnv("PORT", "8080"),
		DatabaseURL: dbURL,

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-please-change"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "DazzlingTours<onboarding@resend.dev>"),

		AbstractEmailAPIKey: os.Getenv("ABSTRACT_EMAIL_API_KEY"),
		UseEmailReputation:  getBool("USE_EMAIL_REPUTATION", false),

		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),

		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3BaseEndpoint: os.Getenv("S3_BASE_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),

		AuthRatePerMinute: getInt("AUTH_RATE_PER_MINUTE", 10),
		AuthRateBurst:     getInt("AUTH_RATE_BURST", 10),

		OTPSweepInterval: getDuration("OTP_SWEEP_INTERVAL", 5*time.Minute),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
