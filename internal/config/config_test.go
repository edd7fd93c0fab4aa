package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DatabasePath != "geniehi.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.TokenDuration != 7*24*time.Hour {
		t.Errorf("TokenDuration = %v, want 7 days", cfg.TokenDuration)
	}
	if cfg.EngineConfig.Model == "" || cfg.EngineConfig.PromptName != "cover_letter" {
		t.Errorf("engine = %+v", cfg.EngineConfig)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.CircuitFailureThreshold != 5 {
		t.Errorf("CircuitFailureThreshold = %d", cfg.Ollama.CircuitFailureThreshold)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GH_ADDR", ":9999")
	t.Setenv("GH_MODEL", "llama3:8b")
	t.Setenv("GH_STARTUP_HEARTBEAT", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.EngineConfig.Model != "llama3:8b" {
		t.Errorf("Model = %q", cfg.EngineConfig.Model)
	}
	if !cfg.StartupHeartbeat {
		t.Error("StartupHeartbeat not set")
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
addr: ":7070"
jwt_secret: from-file
engine:
  model: custom-model
  timeout: 90s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Addr != ":7070" || cfg.JWTSecret != "from-file" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.EngineConfig.Model != "custom-model" || cfg.EngineConfig.Timeout != 90*time.Second {
		t.Errorf("engine = %+v", cfg.EngineConfig)
	}
	// Untouched keys keep their defaults.
	if cfg.DatabasePath != "geniehi.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Addr:         ":8080",
			JWTSecret:    "a-real-secret",
			DatabasePath: "x.db",
			EngineConfig: EngineConfig{Model: "m"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		env     string
		wantErr bool
	}{
		{"valid", func(c *Config) {}, "", false},
		{"missing addr", func(c *Config) { c.Addr = "" }, "", true},
		{"missing database", func(c *Config) { c.DatabasePath = "" }, "", true},
		{"missing model", func(c *Config) { c.EngineConfig.Model = "" }, "", true},
		{"default secret in prod", func(c *Config) { c.JWTSecret = "supersecretkey" }, "", true},
		{"default secret in development", func(c *Config) { c.JWTSecret = "supersecretkey" }, "development", false},
		{"empty secret local mode", func(c *Config) { c.JWTSecret = ""; c.LocalMode = true }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GH_ENV", tt.env)
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
