// Package config resolves settings from defaults, the config file and the
// environment. Command-line flags are applied last by the caller.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	dirName        = ".declutter"
	configFileName = "config"
)

// Config holds every tunable setting.
type Config struct {
	// DataDir holds the key-value files or database.
	DataDir string
	// Backend is json, sqlite or memory.
	Backend string
	// Catalog points at a custom catalogue file; empty uses the built-in one.
	Catalog     string
	Theme       string
	LogLevel    slog.Level
	LogFile     string
	RecentLimit int
	// Warnings collects non-fatal problems found while loading.
	Warnings []string
}

// Dir is ~/.declutter.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func Defaults() *Config {
	c := &Config{
		Backend:     "json",
		Theme:       "classic",
		LogLevel:    slog.LevelInfo,
		RecentLimit: 10,
	}
	if dir, err := Dir(); err == nil {
		c.DataDir = dir
	}
	return c
}

// Load reads the default config file, then the environment.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	c, err := LoadFromPath(p)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromPath returns defaults when the file does not exist.
func LoadFromPath(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader parses "key value" lines. Blank lines and lines starting
// with # are ignored; unknown keys become warnings.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := Defaults()
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		known, err := c.set(key, value)
		if err != nil {
			return nil, fmt.Errorf("config line %d: %w", n, err)
		}
		if !known {
			c.Warnings = append(c.Warnings, fmt.Sprintf("line %d: unknown option %q", n, key))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return c, nil
}

func (c *Config) set(key, value string) (bool, error) {
	switch key {
	case "data-dir":
		c.DataDir = expandHome(value)
	case "backend":
		switch v := strings.ToLower(value); v {
		case "json", "sqlite", "memory":
			c.Backend = v
		default:
			return true, fmt.Errorf("invalid backend: %q", value)
		}
	case "catalog":
		c.Catalog = expandHome(value)
	case "theme":
		c.Theme = strings.ToLower(value)
	case "log.level":
		lvl, err := ParseLevel(value)
		if err != nil {
			return true, err
		}
		c.LogLevel = lvl
	case "log.file":
		c.LogFile = expandHome(value)
	case "recent.limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return true, fmt.Errorf("invalid recent.limit: %q", value)
		}
		c.RecentLimit = n
	default:
		return false, nil
	}
	return true, nil
}

var envKeys = []struct{ env, key string }{
	{"DECLUTTER_HOME", "data-dir"},
	{"DECLUTTER_BACKEND", "backend"},
	{"DECLUTTER_CATALOG", "catalog"},
	{"DECLUTTER_LOG_LEVEL", "log.level"},
	{"DECLUTTER_LOG_FILE", "log.file"},
}

// ApplyEnv overrides settings from DECLUTTER_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	for _, e := range envKeys {
		v := strings.TrimSpace(getenv(e.env))
		if v == "" {
			continue
		}
		if _, err := c.set(e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

// Set applies a single option by its config-file key.
func (c *Config) Set(key, value string) error {
	known, err := c.set(key, value)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
