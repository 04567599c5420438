package config

import (
	"encoding/json"
	"os"

	"github.com/employcd/employcd/internal/flagx"
	"github.com/employcd/employcd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout accepts "10s" or integer nanoseconds.
type JsonConfig struct {
	SocketPath     string         `json:"socket_path"`
	BackendURL     string         `json:"backend_url"`
	AnonKey        string         `json:"anon_key"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DataDir        string         `json:"data_dir"`
	LogLevel       string         `json:"log_level"`
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

	if jc.SocketPath != "" {
		cfg.SocketPath = jc.SocketPath
	}
	if jc.BackendURL != "" {
		cfg.BackendURL = jc.BackendURL
	}
	if jc.AnonKey != "" {
		cfg.AnonKey = jc.AnonKey
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
