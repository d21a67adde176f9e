package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Defaults used when neither flags, env nor a config file set a value.
const (
	DefaultPort    = 8000
	DefaultBaseDir = "."
	DefaultLogFile = "client-logs.txt"
	DefaultOutput  = "text"
)

// Config is everything the server needs at startup.
type Config struct {
	Port    int      `mapstructure:"port"`
	BaseDir string   `mapstructure:"dir"`
	LogFile string   `mapstructure:"log-file"`
	Output  string   `mapstructure:"output"`
	Deny    []string `mapstructure:"deny"`
	Pprof   bool     `mapstructure:"pprof"`
}

// Default returns a Config populated with the defaults.
func Default() Config {
	return Config{
		Port:    DefaultPort,
		BaseDir: DefaultBaseDir,
		LogFile: DefaultLogFile,
		Output:  DefaultOutput,
	}
}

// Validate checks the config and makes its paths absolute.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch strings.ToLower(c.Output) {
	case "text", "json":
		c.Output = strings.ToLower(c.Output)
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output)
	}

	if c.BaseDir == "" {
		c.BaseDir = DefaultBaseDir
	}
	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return fmt.Errorf("resolve base dir: %w", err)
	}
	c.BaseDir = base

	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(c.BaseDir, c.LogFile)
	}

	for _, pattern := range c.Deny {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid deny pattern %q", pattern)
		}
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// URL is the local base URL printed at startup.
func (c Config) URL() string {
	return fmt.Sprintf("http://localhost:%d/", c.Port)
}
