package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env.local"

type Config struct {
	SupabaseURL    string
	ServiceKey     string
	DatabaseDSN    string
	LogLevel       string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.LogLevel = "warn"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig reads envFile (a missing file is fine) and the environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	return cfg, nil
}

// Validate lists every missing setting.
func (c *Config) Validate() error {
	var errs []error
	if c.SupabaseURL == "" {
		errs = append(errs, errors.New("SUPABASE_URL (or NEXT_PUBLIC_SUPABASE_URL) is not set"))
	}
	if c.ServiceKey == "" {
		errs = append(errs, errors.New("SUPABASE_SERVICE_KEY is not set"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	return errors.Join(errs...)
}

func parseEnv(cfg *Config) {
	cfg.SupabaseURL = strings.TrimRight(firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"), "/")
	cfg.ServiceKey = firstEnv("SUPABASE_SERVICE_KEY")
	cfg.DatabaseDSN = firstEnv("DATABASE_URL")
	if v := firstEnv("EMPLOYCD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
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
