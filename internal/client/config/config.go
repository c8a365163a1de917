// Package config loads the SwapMarket CLI configuration. Sources are
// overlaid in order (defaults, environment with .env support, JSON file,
// command-line flags) with later sources taking precedence.
package config

import "time"

// Config holds runtime settings for the SwapMarket CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the marketplace backend.
//   - AccessToken: bearer token of the logged-in user (optional; the
//     registration flow works without one).
//   - OtpTTL: countdown duration of a verification code session.
type Config struct {
	ServerBaseURL string
	AccessToken   string
	OtpTTL        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.OtpTTL = 300 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given), and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
