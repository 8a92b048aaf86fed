package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port" env:"PORT"`
		ReadTimeout  time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `yaml:"idleTimeout" env:"SERVER_IDLE_TIMEOUT"`
		MaxBodyBytes int64         `yaml:"maxBodyBytes" env:"SERVER_MAX_BODY_BYTES"`
	} `yaml:"server"`

	OpenAI struct {
		APIKey        string `yaml:"apiKey" env:"OPENAI_API_KEY"`
		Model         string `yaml:"model" env:"OPENAI_MODEL"`
		BaseURL       string `yaml:"baseURL" env:"OPENAI_BASE_URL"`
		RequireAPIKey bool   `yaml:"requireAPIKey" env:"OPENAI_REQUIRE_API_KEY"`
	} `yaml:"openai"`

	Image struct {
		MaxDimension int `yaml:"maxDimension" env:"IMAGE_MAX_DIMENSION"`
	} `yaml:"image"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
		File   string `yaml:"file" env:"LOG_FILE"`
	} `yaml:"log"`
}

// Default returns the settings used when neither file nor environment say otherwise.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 60 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.MaxBodyBytes = 20 << 20
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

// Load reads .env (if any), then the yaml file at path (if it exists), then
// the process environment. Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ModelTimeout is the deadline for one upstream model call. It stays inside
// the server write timeout so a slow model still leaves room to write the
// default result. Zero means no deadline.
func (c *Config) ModelTimeout() time.Duration {
	if c.Server.WriteTimeout <= 0 {
		return 0
	}
	return c.Server.WriteTimeout - c.Server.WriteTimeout/10
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.OpenAI.RequireAPIKey && c.OpenAI.APIKey == "" {
		return errors.New("openai api key is required (set OPENAI_API_KEY)")
	}
	if c.Image.MaxDimension < 0 {
		return fmt.Errorf("invalid image max dimension %d", c.Image.MaxDimension)
	}
	return nil
}
