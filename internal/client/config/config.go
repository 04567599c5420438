package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/filex"
	"github.com/joho/godotenv"
)

// EnvFile is loaded from the working directory when present.
const EnvFile = ".env.local"

// Config holds runtime settings for the client.
type Config struct {
	SocketPath     string
	BackendURL     string
	AnonKey        string
	RequestTimeout time.Duration
	DataDir        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir, err := filex.PrivateDir(common.AppName)
	if err != nil {
		dir = filepath.Join(os.TempDir(), common.AppName)
	}
	c.DataDir = dir
	c.SocketPath = ""
	c.BackendURL = ""
	c.AnonKey = ""
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, JSON, environment and flags in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	loadEnvFile(EnvFile)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.resolve()
	return cfg
}

// Validate reports settings the client cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is not set (SUPABASE_URL)"))
	}
	if c.AnonKey == "" {
		errs = append(errs, errors.New("anon key is not set (SUPABASE_ANON_KEY)"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) resolve() {
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(c.DataDir, common.SocketFileName)
	}
}

// loadEnvFile exports the variables of path that are not already set.
// A missing file is not an error.
func loadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}
}

func parseEnv(cfg *Config) {
	if v := firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := firstEnv("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"); v != "" {
		cfg.AnonKey = v
	}
	if v := os.Getenv(common.BridgeSocketEnv); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv(common.DataDirEnv); v != "" {
		cfg.DataDir = v
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}
