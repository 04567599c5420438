// Package flagx contains helpers for the layered configuration loaders: each
// layer parses only the flags it owns out of the shared os.Args.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnv names the environment variable consulted when no -c/-config flag
// is given.
const ConfigEnv = "EMPLOYCD_CONFIG"

// FilterArgs returns the subset of args that belong to allowedFlags, keeping
// their values and the original order.
//
// Supported forms:
//
//	-c conf.json           flag and value as separate arguments
//	--config=conf.json     flag and value joined with '='
//
// A separate value is only consumed when it does not itself start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, joined := strings.Cut(arg, "="); joined && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config path from args (-c or -config). When
// neither flag is present it falls back to $EMPLOYCD_CONFIG, and returns ""
// when that is empty too.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	if path == "" {
		path = strings.TrimSpace(os.Getenv(ConfigEnv))
	}
	return path
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
