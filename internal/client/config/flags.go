package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    base URL of the marketplace API
//	-area string session area: customer, admin or supplier
//	-db string   path to the local token database (":memory:" for none)
//	-rt int      token refresh timeout in seconds
//	-log string  log level: debug, info, warn, error
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-area", "-db", "-rt", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the marketplace API")
	fs.StringVar(&cfg.Area, "area", cfg.Area, "session area: customer, admin or supplier")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the local token database")
	refreshTimeout := fs.Int("rt", int(cfg.RefreshTimeout.Seconds()), "token refresh timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshTimeout = time.Duration(*refreshTimeout) * time.Second
}
