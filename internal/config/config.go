// Package config loads server configuration from an optional TOML file
// with environment variable overrides. Env vars win over the file, the
// file wins over defaults, so a container deploy can run file-less while
// a local setup keeps one skilltree.toml.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Backend names for the catalog and progress stores.
const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all configuration for the skilltree server.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Trees    TreesConfig    `toml:"trees"`
	Progress ProgressConfig `toml:"progress"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TreesConfig selects the published-tree catalog backend.
type TreesConfig struct {
	// Backend is "file" or "mongo".
	Backend string `toml:"backend"`
	// Dir is the tree directory for the file backend.
	Dir string `toml:"dir"`
	// MongoURI, MongoDatabase, MongoCollection configure the mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ProgressConfig selects the per-user progress backend.
type ProgressConfig struct {
	// Backend is "file", "sqlite", or "redis".
	Backend string `toml:"backend"`
	// Dir is the progress directory for the file backend.
	Dir string `toml:"dir"`
	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `toml:"sqlite_path"`
	// RedisAddr, RedisPassword, RedisDB configure the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Trees: TreesConfig{
			Backend:         BackendFile,
			Dir:             "./trees",
			MongoDatabase:   "skilltree",
			MongoCollection: "trees",
		},
		Progress: ProgressConfig{
			Backend: BackendFile,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration. The path may be empty, in which case only
// defaults and environment variables apply; a non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with SKILLTREE_* environment variables.
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SKILLTREE_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("SKILLTREE_PORT", cfg.Server.Port)

	cfg.Trees.Backend = getEnv("SKILLTREE_TREES_BACKEND", cfg.Trees.Backend)
	cfg.Trees.Dir = getEnv("SKILLTREE_TREES_DIR", cfg.Trees.Dir)
	cfg.Trees.MongoURI = getEnv("SKILLTREE_MONGO_URI", cfg.Trees.MongoURI)
	cfg.Trees.MongoDatabase = getEnv("SKILLTREE_MONGO_DATABASE", cfg.Trees.MongoDatabase)
	cfg.Trees.MongoCollection = getEnv("SKILLTREE_MONGO_COLLECTION", cfg.Trees.MongoCollection)

	cfg.Progress.Backend = getEnv("SKILLTREE_PROGRESS_BACKEND", cfg.Progress.Backend)
	cfg.Progress.Dir = getEnv("SKILLTREE_PROGRESS_DIR", cfg.Progress.Dir)
	cfg.Progress.SQLitePath = getEnv("SKILLTREE_SQLITE_PATH", cfg.Progress.SQLitePath)
	cfg.Progress.RedisAddr = getEnv("SKILLTREE_REDIS_ADDR", cfg.Progress.RedisAddr)
	cfg.Progress.RedisPassword = getEnv("SKILLTREE_REDIS_PASSWORD", cfg.Progress.RedisPassword)
	cfg.Progress.RedisDB = getEnvAsInt("SKILLTREE_REDIS_DB", cfg.Progress.RedisDB)

	cfg.Log.Level = getEnv("SKILLTREE_LOG_LEVEL", cfg.Log.Level)
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Trees.Backend {
	case BackendFile:
		if c.Trees.Dir == "" {
			return fmt.Errorf("trees.dir is required for the file backend")
		}
	case BackendMongo:
		if c.Trees.MongoURI == "" {
			return fmt.Errorf("trees.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown trees backend: %q", c.Trees.Backend)
	}

	switch c.Progress.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Progress.RedisAddr == "" {
			return fmt.Errorf("progress.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown progress backend: %q", c.Progress.Backend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
