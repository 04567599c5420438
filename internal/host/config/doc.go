// Package config loads runtime configuration for the shell process.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $EMPLOYCD_CONFIG.
//  3. Environment: EMPLOYCD_DATA_DIR, EMPLOYCD_SOCKET.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   private data directory (key file and records)
//	-s string   bridge unix socket path
//	-b string   UI client binary launched as the window
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "data_dir": "/home/me/.config/employcd",
//	  "socket_path": "/run/user/1000/employcd.sock",
//	  "client_binary": "employcd-client",
//	  "log_level": "info",
//	  "shutdown_timeout": "5s"
//	}
//
// An empty socket path resolves to <data_dir>/bridge.sock after all layers
// are applied.
package config
