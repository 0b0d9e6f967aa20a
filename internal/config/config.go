package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/internal/db"
	"github.com/vvka-141/netres/internal/retry"
	"github.com/vvka-141/netres/pkg/netres"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "netres.yaml"

const (
	DefaultMetricsAddr = ":9090"
	DefaultInterval    = 30 * time.Second
)

// RetryConfig mirrors the retry policy. Zero values take the netres defaults.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialDelay      time.Duration `yaml:"initial_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffFactor     float64       `yaml:"backoff_factor"`
	Jitter            *bool         `yaml:"jitter"`
	TimeoutPerAttempt time.Duration `yaml:"timeout_per_attempt"`
}

type CheckConfig struct {
	Name             string `yaml:"name"`
	Kind             string `yaml:"kind"`
	URL              string `yaml:"url,omitempty"`
	Method           string `yaml:"method,omitempty"`
	Host             string `yaml:"host,omitempty"`
	Port             int    `yaml:"port,omitempty"`
	AllowDegradation bool   `yaml:"allow_degradation,omitempty"`
}

type Config struct {
	Retry       RetryConfig   `yaml:"retry"`
	Checks      []CheckConfig `yaml:"checks"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Interval    time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MetricsAddr: DefaultMetricsAddr,
		Interval:    DefaultInterval,
	}
}

// Load reads and validates netres.yaml from dir.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", ConfigFileName, err, netres.ErrInvalidConfig)
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the retry section and every check entry.
func (c *Config) Validate() error {
	if _, err := c.Retry.Policy(); err != nil {
		return fmt.Errorf("retry: %w", err)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be positive, got %v: %w", c.Interval, netres.ErrInvalidConfig)
	}

	for i, check := range c.Checks {
		if err := check.validate(); err != nil {
			return fmt.Errorf("checks[%d] (%s): %w", i, check.Name, err)
		}
	}
	return nil
}

// Policy builds a validated retry policy.
func (r RetryConfig) Policy() (*retry.RetryPolicy, error) {
	attempts := r.MaxAttempts
	if attempts == 0 {
		attempts = netres.DefaultRetryMaxAttempts
	}

	var opts []retry.PolicyOption
	if r.InitialDelay != 0 {
		opts = append(opts, retry.WithInitialDelay(r.InitialDelay))
	}
	if r.MaxDelay != 0 {
		opts = append(opts, retry.WithMaxDelay(r.MaxDelay))
	}
	if r.BackoffFactor != 0 {
		opts = append(opts, retry.WithBackoffFactor(r.BackoffFactor))
	}
	if r.Jitter != nil {
		opts = append(opts, retry.WithJitter(*r.Jitter))
	}
	if r.TimeoutPerAttempt != 0 {
		opts = append(opts, retry.WithTimeoutPerAttempt(r.TimeoutPerAttempt))
	}

	return retry.NewRetryPolicy(attempts, opts...)
}

func (c CheckConfig) validate() error {
	switch checks.Kind(c.Kind) {
	case checks.KindHTTP, checks.KindDatabase:
		if c.URL == "" {
			return fmt.Errorf("url is required for %s checks: %w", c.Kind, netres.ErrInvalidConfig)
		}
	case checks.KindTCP:
		if c.Host == "" {
			return fmt.Errorf("host is required for tcp checks: %w", netres.ErrInvalidConfig)
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port %d: %w", c.Port, netres.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown kind %q (want http, tcp or database): %w", c.Kind, netres.ErrInvalidConfig)
	}
	return nil
}

// Target converts the entry into a check target, expanding ${VAR}
// references in url and host.
func (c CheckConfig) Target() checks.Target {
	return checks.Target{
		Name:             c.Name,
		Kind:             checks.Kind(c.Kind),
		URL:              os.ExpandEnv(c.URL),
		Method:           c.Method,
		Host:             os.ExpandEnv(c.Host),
		Port:             c.Port,
		AllowDegradation: c.AllowDegradation,
	}
}

// Targets returns the configured checks followed by implicit database checks
// from env (DATABASE_URL, PG*, REDIS_URL) not already configured.
func (c *Config) Targets(env *db.EnvVars) []checks.Target {
	targets := make([]checks.Target, 0, len(c.Checks))
	seen := make(map[string]bool)

	for _, check := range c.Checks {
		t := check.Target()
		targets = append(targets, t)
		if t.Kind == checks.KindDatabase {
			seen[t.URL] = true
		}
	}

	if env == nil {
		return targets
	}
	for _, u := range env.DatabaseURLs() {
		if seen[u] {
			continue
		}
		seen[u] = true
		name := "database"
		if target, err := db.Parse(u); err == nil {
			name = target.Scheme
		}
		targets = append(targets, checks.Target{Name: name + " (env)", Kind: checks.KindDatabase, URL: u})
	}
	return targets
}
