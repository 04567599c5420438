package config

import (
	"encoding/json"
	"os"

	"github.com/employcd/employcd/internal/flagx"
	"github.com/employcd/employcd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DataDir         string         `json:"data_dir"`
	SocketPath      string         `json:"socket_path"`
	ClientBinary    string         `json:"client_binary"`
	LogLevel        string         `json:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// -c/-config or $EMPLOYCD_CONFIG. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.SocketPath != "" {
		cfg.SocketPath = jc.SocketPath
	}
	if jc.ClientBinary != "" {
		cfg.ClientBinary = jc.ClientBinary
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}
