package config

import (
	"os"
	"strconv"
	"time"

	"crm-service/internal/pkg/token"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Bearer credentials
	Token token.Config

	// OTP issuance
	OTPTTL        time.Duration
	OTPRateMax    int64
	OTPRateWindow time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		Token: token.Config{
			Secret:   getEnv("TOKEN_SECRET", ""),
			Issuer:   "crm-service",
			Audience: "crm-users",
			TTL:      8760 * time.Hour,
		},

		OTPTTL:        5 * time.Minute,
		OTPRateMax:    getEnvInt64("OTP_RATE_MAX", 5),
		OTPRateWindow: 15 * time.Minute,
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
