// Package config loads service configuration from a YAML file with
// environment overrides for deploy-time secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full intaked configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Blob struct {
		BasePath string `yaml:"base_path"`
	} `yaml:"blob"`

	API struct {
		Key string `yaml:"key"`
	} `yaml:"api"`

	Public struct {
		// BaseURL is the externally reachable origin used when printing
		// client form links.
		BaseURL string `yaml:"base_url"`
	} `yaml:"public"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Drafts struct {
		// Dir holds server-side draft documents for programmatic sessions.
		Dir string `yaml:"dir"`
	} `yaml:"drafts"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Blob.BasePath = "data/blobs"
	cfg.Drafts.Dir = "data/drafts"
	return cfg
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides. A missing file is an error only when path was given
// explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Database.DSN == "" {
		return Config{}, fmt.Errorf("config: database dsn is required")
	}
	if cfg.API.Key == "" {
		return Config{}, fmt.Errorf("config: api key is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INTAKE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("INTAKE_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("INTAKE_BLOB_PATH"); v != "" {
		cfg.Blob.BasePath = v
	}
	if v := os.Getenv("INTAKE_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("INTAKE_PUBLIC_URL"); v != "" {
		cfg.Public.BaseURL = v
	}
}
