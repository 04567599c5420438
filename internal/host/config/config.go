package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/filex"
)

// Config holds runtime settings for the shell.
type Config struct {
	DataDir         string
	SocketPath      string
	ClientBinary    string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir, err := filex.PrivateDir(common.AppName)
	if err != nil {
		dir = filepath.Join(os.TempDir(), common.AppName)
	}
	c.DataDir = dir
	c.SocketPath = ""
	c.ClientBinary = "employcd-client"
	c.LogLevel = "info"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig applies defaults, JSON, environment and flags in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.resolve()
	return cfg
}

func (c *Config) resolve() {
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(c.DataDir, common.SocketFileName)
	}
}

func parseEnv(cfg *Config) {
	if v := os.Getenv(common.DataDirEnv); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(common.BridgeSocketEnv); v != "" {
		cfg.SocketPath = v
	}
}
