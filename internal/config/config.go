// Package config loads settings from an optional YAML file, .env files and
// TODO_* environment variables, in increasing order of precedence.
//
// Example todo.yml:
//
//	store:
//	  driver: sqlite
//	  path: ~/.local/share/todo/todos.db
//	list:
//	  keep_filter_on_add: false
//	log:
//	  level: warn
//	  file: /tmp/todo.log
//	ui:
//	  theme: neon
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"

	DefaultConfigFile = "todo.yml"
	defaultSQLitePath = "todos.db"
	defaultJSONPath   = "todos.json"
)

type Config struct {
	Store StoreConfig `yaml:"store"`
	List  ListConfig  `yaml:"list"`
	Log   LogConfig   `yaml:"log"`
	UI    UIConfig    `yaml:"ui"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type ListConfig struct {
	// KeepFilterOnAdd keeps the search filter active after adding an item
	// instead of reloading the unfiltered list.
	KeepFilterOnAdd bool `yaml:"keep_filter_on_add"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type UIConfig struct {
	Theme string `yaml:"theme"`
}

// Load reads path if it exists, then applies .env files and environment
// overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path == "" {
		path = getEnv("TODO_CONFIG", DefaultConfigFile)
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local then .env.
// godotenv never overrides variables that are already set.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Store.Driver = getEnv("TODO_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.Path = getEnv("TODO_STORE_PATH", cfg.Store.Path)
	cfg.Log.Level = getEnv("TODO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("TODO_LOG_FILE", cfg.Log.File)
	cfg.UI.Theme = getEnv("TODO_THEME", cfg.UI.Theme)
	if v, ok := os.LookupEnv("TODO_KEEP_FILTER_ON_ADD"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.List.KeepFilterOnAdd = b
		}
	}
}

// SetDefaults fills unset fields. The store path default depends on the driver.
func (c *Config) SetDefaults() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultPath(c.Store.Driver)
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "classic"
	}
}

// DefaultPath is the store file used when none is configured.
func DefaultPath(driver string) string {
	if driver == DriverJSON {
		return defaultJSONPath
	}
	return defaultSQLitePath
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverJSON:
	default:
		return fmt.Errorf("store.driver: unknown driver %q (want %s or %s)", c.Store.Driver, DriverSQLite, DriverJSON)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q (want debug, info, warn or error)", c.Log.Level)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
