package config

import (
	"flag"
	"os"
	"time"

	"github.com/bennieslab/threatwatch/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the IDS aggregation service
//	-em string  email-ingest submission endpoint
//	-sm string  SMS-detection submission endpoint
//	-r int      dashboard refresh interval in seconds
//	-t int      per-request HTTP timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so cobra's own flag handling is not disturbed.
var ownedFlags = []string{"-a", "-em", "-sm", "-r", "-t", "-c", "-config"}

// OwnedFlags lists the flags this package parses itself. The command surface
// strips them from its own argument list.
func OwnedFlags() []string {
	return ownedFlags
}

func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-em", "-sm", "-r", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the IDS aggregation service")
	fs.StringVar(&cfg.EmailIngestURL, "em", cfg.EmailIngestURL, "email-ingest submission endpoint")
	fs.StringVar(&cfg.SMSDetectURL, "sm", cfg.SMSDetectURL, "SMS-detection submission endpoint")
	refresh := fs.Int("r", int(cfg.RefreshInterval.Seconds()), "dashboard refresh interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshInterval = time.Duration(*refresh) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
