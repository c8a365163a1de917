package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/swapmarket/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the marketplace backend
//	-t string   bearer access token
//	-o int      OTP countdown in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the marketplace backend")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "bearer access token")
	otpTTL := fs.Int("o", int(cfg.OtpTTL.Seconds()), "OTP countdown (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OtpTTL = time.Duration(*otpTTL) * time.Second
}
