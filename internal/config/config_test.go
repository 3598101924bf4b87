package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Trees.Backend != BackendFile || cfg.Trees.Dir != "./trees" {
		t.Errorf("trees = %+v, want file backend with ./trees", cfg.Trees)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skilltree.toml")
	body := `
[server]
port = 9000

[trees]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[progress]
backend = "sqlite"
sqlite_path = "/tmp/progress.db"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Trees.Backend != BackendMongo || cfg.Trees.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("trees = %+v, want mongo backend", cfg.Trees)
	}
	if cfg.Trees.MongoDatabase != "skilltree" {
		t.Errorf("mongo database = %q, want default retained", cfg.Trees.MongoDatabase)
	}
	if cfg.Progress.Backend != BackendSQLite {
		t.Errorf("progress backend = %q, want sqlite", cfg.Progress.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skilltree.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKILLTREE_PORT", "7777")
	t.Setenv("SKILLTREE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown trees backend", func(c *Config) { c.Trees.Backend = "dynamo" }},
		{"mongo without uri", func(c *Config) { c.Trees.Backend = BackendMongo }},
		{"file without dir", func(c *Config) { c.Trees.Dir = "" }},
		{"unknown progress backend", func(c *Config) { c.Progress.Backend = "etcd" }},
		{"redis without addr", func(c *Config) { c.Progress.Backend = BackendRedis }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nope/skilltree.toml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
