package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`

	// Sign-in round-trip URLs: the hosted sign-in page and the URL it should
	// send the browser back to with an id_token.
	FrontendURL string `yaml:"frontend_url"`
	ReturnURL   string `yaml:"return_url"`
	LocalMode   bool   `yaml:"local_mode"`

	// StartupHeartbeat emits a single heartbeat interaction-log event when the
	// server comes up, as a write-path smoke test.
	StartupHeartbeat bool `yaml:"startup_heartbeat"`

	EngineConfig EngineConfig `yaml:"engine"`
	Ollama       OllamaConfig `yaml:"ollama"`
}

type EngineConfig struct {
	Model         string        `yaml:"model"`
	PromptName    string        `yaml:"prompt_name"`
	PromptVersion string        `yaml:"prompt_version"`
	Timeout       time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	// matches the gh_id_token cookie max-age
	tokenDuration := 7 * 24 * time.Hour

	cfg := &Config{
		Addr:             getEnv("GH_ADDR", ":8080"),
		JWTSecret:        getEnv("GH_JWT_SECRET", "supersecretkey"),
		APITimeout:       apiTimeout,
		DatabasePath:     getEnv("GH_DATABASE_PATH", "geniehi.db"),
		TokenDuration:    tokenDuration,
		FrontendURL:      getEnv("GH_FRONTEND_URL", "https://genie-hi-front.web.app/"),
		ReturnURL:        getEnv("GH_RETURN_URL", "http://localhost:8080/"),
		LocalMode:        os.Getenv("GH_LOCAL_MODE") == "true",
		StartupHeartbeat: os.Getenv("GH_STARTUP_HEARTBEAT") == "true",
		EngineConfig: EngineConfig{
			Model:         getEnv("GH_MODEL", "gemma3:4b"),
			PromptName:    "cover_letter",
			PromptVersion: getEnv("GH_PROMPT_VERSION", "p1.0"),
			Timeout:       60 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL:                 getEnv("GH_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 60 * time.Second,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks config values that have no safe fallback. The default JWT
// secret is only allowed when GH_ENV is development or local mode is on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.EngineConfig.Model == "" {
		return fmt.Errorf("engine model is required")
	}
	if c.JWTSecret == "" || c.JWTSecret == "supersecretkey" {
		env := os.Getenv("GH_ENV")
		if env != "development" && !c.LocalMode {
			return fmt.Errorf("insecure jwt_secret outside development")
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
