package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/swapmarket/internal/flagx"
	"github.com/dmitrijs2005/swapmarket/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the OTP countdown either as a string
// like "300s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	AccessToken   string         `json:"access_token"`
	OtpTTL        timex.Duration `json:"otp_ttl"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. Absent flags mean no JSON is loaded. Read or
// unmarshal errors panic; the caller may recover if desired. Zero-valued
// JSON fields leave the current Config value in place.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.AccessToken != "" {
		cfg.AccessToken = jc.AccessToken
	}
	if jc.OtpTTL.Duration != 0 {
		cfg.OtpTTL = time.Duration(jc.OtpTTL.Duration)
	}
}
