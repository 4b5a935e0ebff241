package library

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultAPIBaseURL is used when neither the config file nor the environment
// names an API.
const DefaultAPIBaseURL = "https://nestjsdemo-8840.onrender.com"

// DefaultStatePath is the SQLite file holding the session token.
const DefaultStatePath = "library.db"

// Environment overrides.
const (
	EnvAPIURL    = "LIBRARY_API_URL"
	EnvStatePath = "LIBRARY_STATE"
)

// Config is the front end's runtime configuration.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	// StatePath is the SQLite file for the token slot. Empty keeps the token
	// in memory only.
	StatePath string `yaml:"state_path"`
	// RequestTimeout bounds each API call; zero waits for the transport.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// InitialSampleData shows the sample datasets before the first fetch.
	InitialSampleData bool `yaml:"initial_sample_data"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		APIBaseURL: DefaultAPIBaseURL,
		StatePath:  DefaultStatePath,
	}
}

// LoadConfig resolves the configuration: defaults, then the YAML file at path
// if one is given, then environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStatePath)); v != "" {
		cfg.StatePath = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate fills in an empty API URL and rejects nonsense values.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url %q must start with http:// or https://", c.APIBaseURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout cannot be negative")
	}
	return nil
}
