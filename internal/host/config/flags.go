package config

import (
	"flag"
	"os"

	"github.com/employcd/employcd/internal/flagx"
)

// parseFlags populates Config from the flags this package owns; other
// arguments in os.Args are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-b", "-l"})

	fs := flag.NewFlagSet("shell", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "private data directory")
	fs.StringVar(&cfg.SocketPath, "s", cfg.SocketPath, "bridge socket path")
	fs.StringVar(&cfg.ClientBinary, "b", cfg.ClientBinary, "UI client binary")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
