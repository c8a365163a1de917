package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
//
// Recognized variables:
//
//	SWAPMARKET_SERVER_URL  base URL of the backend
//	SWAPMARKET_TOKEN       bearer access token
//	SWAPMARKET_OTP_TTL     countdown duration, e.g. "300s"
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SWAPMARKET_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("SWAPMARKET_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("SWAPMARKET_OTP_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OtpTTL = d
		}
	}
}
