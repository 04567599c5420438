// Package config loads runtime configuration for the EmployCD client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $EMPLOYCD_CONFIG.
//  3. Environment, after loading .env.local with godotenv (variables already
//     set in the process win over the file).
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   bridge unix socket path
//	-u string   backend base URL
//	-k string   backend anon key
//	-t int      backend request timeout (seconds)
//	-d string   data directory for the card database and the log file
//	-l string   log level: debug, info, warn, error
//
// Environment
//
//	SUPABASE_URL, NEXT_PUBLIC_SUPABASE_URL
//	SUPABASE_ANON_KEY, NEXT_PUBLIC_SUPABASE_ANON_KEY
//	EMPLOYCD_SOCKET, EMPLOYCD_DATA_DIR
//
// # JSON schema
//
//	{
//	  "socket_path": "/home/me/.config/employcd/bridge.sock",
//	  "backend_url": "https://xyz.supabase.co",
//	  "anon_key": "eyJ...",
//	  "request_timeout": "10s",
//	  "data_dir": "/home/me/.config/employcd",
//	  "log_level": "info"
//	}
package config
