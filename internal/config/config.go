// Package config loads service settings: built-in defaults, then an optional
// YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the YAML file to read, if any.
const EnvConfigFile = "NOTEBOX_CONFIG"

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageMongo  = "mongo"
)

type Config struct {
	Port    string        `yaml:"port"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
}

type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: "7521",
		Storage: StorageConfig{
			Backend:  StorageFile,
			DataDir:  defaultDataDir(),
			MongoURI: "mongodb://localhost:27017",
			MongoDB:  "notebox",
		},
		Remote: RemoteConfig{Timeout: 10 * time.Second},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case
// NOTEBOX_CONFIG is consulted; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.Port = getEnv("PORT", c.Port)
	c.Storage.Backend = getEnv("NOTEBOX_STORAGE", c.Storage.Backend)
	c.Storage.DataDir = getEnv("NOTEBOX_DATA_DIR", c.Storage.DataDir)
	c.Storage.MongoURI = getEnv("MONGODB_URI", c.Storage.MongoURI)
	c.Storage.MongoDB = getEnv("MONGODB_DB", c.Storage.MongoDB)
	c.Remote.URL = getEnv("NOTEBOX_REMOTE_URL", c.Remote.URL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	if v := os.Getenv("NOTEBOX_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse NOTEBOX_FETCH_TIMEOUT: %w", err)
		}
		c.Remote.Timeout = d
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageFile, StorageMongo:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageFile && c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required for the file backend")
	}
	if c.Remote.Timeout <= 0 {
		return errors.New("remote.timeout must be positive")
	}
	return nil
}

// SlogLevel maps Log.Level onto slog; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(home, ".local", "share", "notebox")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
