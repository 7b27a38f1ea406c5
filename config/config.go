package config

import (
	"fmt"
	"gopkg.in/yaml.v2"
	"os"
	"path/filepath"
	"time"
)

// Endpoint describes a GraphQL endpoint reachable over HTTP
type Endpoint struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	// Timeout bounds a whole HTTP exchange, zero means no timeout
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

func (e *Endpoint) validate() error {
	if e.URL == "" {
		return fmt.Errorf("url is required")
	}
	if e.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// Config is the configuration of a client
type Config struct {
	Endpoint Endpoint `yaml:"endpoint"`
	// MutationEndpoint receives mutations when set, every other operation goes to Endpoint
	MutationEndpoint *Endpoint `yaml:"mutation_endpoint,omitempty"`
}

// LoadConfig loads and validates a YAML configuration file. Environment variables referenced as
// $VAR or ${VAR} are expanded before parsing.
func LoadConfig(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}

	return cfg, nil
}

func ParseConfig(b []byte) (*Config, error) {
	var cfg Config
	confContent := []byte(os.ExpandEnv(string(b)))
	if err := yaml.UnmarshalStrict(confContent, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	if err := cfg.Endpoint.validate(); err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}

	if cfg.MutationEndpoint != nil {
		if err := cfg.MutationEndpoint.validate(); err != nil {
			return nil, fmt.Errorf("mutation_endpoint: %w", err)
		}
	}

	return &cfg, nil
}
