package config

import (
	"flag"
	"os"
	"time"

	"github.com/employcd/employcd/internal/flagx"
)

// parseFlags populates Config from the flags this package owns; other
// arguments in os.Args are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-u", "-k", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.SocketPath, "s", cfg.SocketPath, "bridge socket path")
	fs.StringVar(&cfg.BackendURL, "u", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "backend anon key")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "backend request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
