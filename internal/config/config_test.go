package config

import (
	"path/filepath"
	"testing"
)

func TestValidateResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	c := Default()
	c.BaseDir = dir

	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, DefaultLogFile); c.LogFile != want {
		t.Errorf("expected log file %q, got %q", want, c.LogFile)
	}
	if !filepath.IsAbs(c.BaseDir) {
		t.Errorf("expected absolute base dir, got %q", c.BaseDir)
	}
}

func TestValidateKeepsAbsoluteLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "other.txt")
	c := Default()
	c.BaseDir = t.TempDir()
	c.LogFile = logPath

	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.LogFile != logPath {
		t.Errorf("expected log file %q, got %q", logPath, c.LogFile)
	}
}

func TestValidateRejects(t *testing.T) {
	bad := map[string]func(*Config){
		"port zero":    func(c *Config) { c.Port = 0 },
		"port too big": func(c *Config) { c.Port = 70000 },
		"output":       func(c *Config) { c.Output = "xml" },
		"deny glob":    func(c *Config) { c.Deny = []string{"[unterminated"} },
	}
	for name, mutate := range bad {
		c := Default()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateNormalizesOutput(t *testing.T) {
	c := Default()
	c.Output = "JSON"
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Output != "json" {
		t.Errorf("expected output json, got %q", c.Output)
	}
}

func TestURL(t *testing.T) {
	c := Default()
	if got := c.URL(); got != "http://localhost:8000/" {
		t.Errorf("unexpected URL %q", got)
	}
	if got := c.Addr(); got != ":8000" {
		t.Errorf("unexpected addr %q", got)
	}
}
