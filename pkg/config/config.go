// Package config loads Wayfinder settings from a TOML file and the environment.
//
// Settings are resolved in three layers, later layers winning:
//  1. Built-in defaults ([Default])
//  2. The TOML file ([Load])
//  3. Environment variables ([Config.ApplyEnv])
//
// A missing config file is not an error; the defaults apply.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
)

// Store backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported store backend.
var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// DefaultMap is the working map used when none is configured.
const DefaultMap = "map_data.json"

// Config is the full Wayfinder configuration.
type Config struct {
	DefaultMap string  `toml:"default_map"`
	LogLevel   string  `toml:"log_level"`
	Store      Store   `toml:"store"`
	Tracing    Tracing `toml:"tracing"`
}

// Store selects and configures the map store backend.
type Store struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPrefix   string `toml:"redis_prefix"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Tracing configures OpenTelemetry export.
type Tracing struct {
	Enabled     bool   `toml:"enabled"`
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
}

// Default returns the built-in configuration: JSON files in the working
// directory, info logging and tracing off.
func Default() Config {
	return Config{
		DefaultMap: DefaultMap,
		LogLevel:   "info",
		Store: Store{
			Backend:       BackendFile,
			Dir:           ".",
			SQLitePath:    "wayfinder.db",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "wayfinder:",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "wayfinder",
		},
		Tracing: Tracing{
			Endpoint:    "localhost:4318",
			ServiceName: "wayfinder",
		},
	}
}

// DefaultPath returns the config file location:
// $XDG_CONFIG_HOME/wayfinder/config.toml, else ~/.config/wayfinder/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wayfinder", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wayfinder", "config.toml")
}

// Load reads the TOML file at path on top of [Default]. An empty path means
// [DefaultPath]. A missing file yields the defaults. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from WAYFINDER_* and OTEL_* environment variables.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(&c.DefaultMap, "WAYFINDER_MAP")
	setString(&c.LogLevel, "WAYFINDER_LOG_LEVEL")
	setString(&c.Store.Backend, "WAYFINDER_STORE")
	setString(&c.Store.Dir, "WAYFINDER_MAPS_DIR")
	setString(&c.Store.SQLitePath, "WAYFINDER_SQLITE_PATH")
	setString(&c.Store.RedisAddr, "WAYFINDER_REDIS_ADDR")
	setString(&c.Store.MongoURI, "WAYFINDER_MONGO_URI")
	setString(&c.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v, ok := os.LookupEnv("OTEL_TRACES_ENABLED"); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Tracing.Enabled = enabled
		}
	}
}

// Validate rejects unknown store backends and log levels with INVALID_CONFIG.
func (c Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !slices.Contains(Backends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig,
			"unknown store backend %q (expected one of %s)", c.Store.Backend, strings.Join(Backends, ", "))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return errs.New(errs.ErrCodeInvalidConfig,
			"unknown log level %q (expected one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.DefaultMap == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "default_map cannot be empty")
	}
	return nil
}
