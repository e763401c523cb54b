package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devdiv-tools/jobdumper/internal/fetch"
)

// Environment variable names. Both override the config file.
const (
	EnvRetries  = "JOBDUMPER_RETRIES"
	EnvKeywords = "JOBDUMPER_SEARCHKEYWORDS"
)

// defaultKeywords are the built-in search terms, URL-encoded, with quoted
// phrases enclosed in quotation marks.
var defaultKeywords = []string{"ddjl", "%23DevDiv", "DevDiv", `"Developer%20Division"`}

// Config is the root configuration for the jobdumper pipeline.
type Config struct {
	Retries           int           // additional attempts per page after the first
	BaseDelay         time.Duration // backoff unit between retry attempts
	Keywords          []string      // URL-encoded search keywords
	BaseURL           string        // search-results endpoint
	DataDir           string        // artifact, cache files, and run archive
	Interval          time.Duration // scheduler period
	ListenAddr        string        // HTTP server bind address
	RequestsPerSecond float64       // pacing between page requests
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings). Pointer fields distinguish "absent" from zero values.
type rawConfig struct {
	Retries           *int     `yaml:"retries"`
	BaseDelay         string   `yaml:"base_delay"`
	Keywords          []string `yaml:"keywords"`
	BaseURL           string   `yaml:"base_url"`
	DataDir           string   `yaml:"data_dir"`
	Interval          string   `yaml:"interval"`
	ListenAddr        string   `yaml:"listen_addr"`
	RequestsPerSecond *float64 `yaml:"requests_per_second"`
}

// Default returns the built-in configuration, used when no file is present.
func Default() *Config {
	return &Config{
		Retries:           2,
		BaseDelay:         10 * time.Second,
		Keywords:          append([]string(nil), defaultKeywords...),
		BaseURL:           fetch.DefaultBaseURL,
		DataDir:           "data",
		Interval:          time.Hour,
		ListenAddr:        ":8080",
		RequestsPerSecond: 1,
	}
}

// Load builds the configuration: defaults, overlaid with the YAML file at
// path if it exists, overlaid with environment variables, then validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus env overrides.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		// Expand environment variables referenced inside the file.
		expanded := os.ExpandEnv(string(data))

		var raw rawConfig
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := overlay(cfg, raw); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlay(cfg *Config, raw rawConfig) error {
	if raw.Retries != nil {
		cfg.Retries = *raw.Retries
	}
	if raw.BaseDelay != "" {
		d, err := time.ParseDuration(raw.BaseDelay)
		if err != nil {
			return fmt.Errorf("parse base_delay %q: %w", raw.BaseDelay, err)
		}
		cfg.BaseDelay = d
	}
	if len(raw.Keywords) > 0 {
		cfg.Keywords = raw.Keywords
	}
	if raw.BaseURL != "" {
		cfg.BaseURL = raw.BaseURL
	}
	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}
	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("parse interval %q: %w", raw.Interval, err)
		}
		cfg.Interval = d
	}
	if raw.ListenAddr != "" {
		cfg.ListenAddr = raw.ListenAddr
	}
	if raw.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	return nil
}

// applyEnv overrides from the environment. Unparseable values are ignored so
// a bad variable falls back to the configured default rather than killing the
// run.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRetries); v != "" {
		if retries, err := strconv.Atoi(v); err == nil {
			cfg.Retries = retries
		}
	}
	if v := os.Getenv(EnvKeywords); v != "" {
		if keywords := splitKeywords(v); len(keywords) > 0 {
			cfg.Keywords = keywords
		}
	}
}

// splitKeywords parses the comma-separated keyword list from the environment.
func splitKeywords(s string) []string {
	var keywords []string
	for _, kw := range strings.Split(s, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func validate(cfg *Config) error {
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", cfg.Retries)
	}
	if cfg.BaseDelay <= 0 {
		return fmt.Errorf("base_delay must be positive, got %v", cfg.BaseDelay)
	}
	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", cfg.Interval)
	}
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %v", cfg.RequestsPerSecond)
	}
	return nil
}
