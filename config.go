package tinderclient

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type (
	// FileConfig is the on-disk form of Config. Every field is optional;
	// durations are parsed with time.ParseDuration ("1s", "3h").
	FileConfig struct {
		BaseURL        *string                   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
		Locale         *string                   `json:"locale,omitempty" yaml:"locale,omitempty"`
		Headers        map[string]string         `json:"headers,omitempty" yaml:"headers,omitempty"`
		Retry          *FileRetryConfig          `json:"retry,omitempty" yaml:"retry,omitempty"`
		CircuitBreaker *FileCircuitBreakerConfig `json:"circuit_breaker,omitempty" yaml:"circuit_breaker,omitempty"`
	}

	FileRetryConfig struct {
		// Example: 2.
		MaxAttempts *uint8 `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
		// Example: "1s".
		Interval *string `json:"interval,omitempty" yaml:"interval,omitempty"`
		// Example: "16s".
		AttemptTimeout *string `json:"attempt_timeout,omitempty" yaml:"attempt_timeout,omitempty"`
	}

	FileCircuitBreakerConfig struct {
		Name                *string  `json:"name,omitempty" yaml:"name,omitempty"`
		FailureRatio        *float64 `json:"failure_ratio,omitempty" yaml:"failure_ratio,omitempty"`
		MinRequests         *uint32  `json:"min_requests,omitempty" yaml:"min_requests,omitempty"`
		HalfOpenMaxRequests *uint32  `json:"half_open_max_requests,omitempty" yaml:"half_open_max_requests,omitempty"`
		// Example: "12s".
		Interval *string `json:"interval,omitempty" yaml:"interval,omitempty"`
		// Example: "3h".
		OpenTimeout *string `json:"open_timeout,omitempty" yaml:"open_timeout,omitempty"`
	}
)

// LoadConfig reads a JSON or YAML file (chosen by extension, YAML for
// anything but .json) and returns it as a Config. Unset fields stay zero,
// so the result is meant to be passed to WithConfig or merged over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	// #nosec G304 -- path comes from the caller's flags or environment
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("tinderclient: read config: %w", err)
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &fc)
	} else {
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return Config{}, fmt.Errorf("tinderclient: parse config: %w", err)
	}

	cfg, err := fc.Config()
	if err != nil {
		return Config{}, fmt.Errorf("tinderclient: config %s: %w", path, err)
	}
	return cfg, nil
}

// Config converts fc, validating durations and the failure ratio.
func (fc *FileConfig) Config() (Config, error) {
	var cfg Config
	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.Locale != nil {
		cfg.Locale = *fc.Locale
	}

	names := make([]string, 0, len(fc.Headers))
	for name := range fc.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg.Headers = append(cfg.Headers, common.Header{Name: name, Value: fc.Headers[name]})
	}

	if r := fc.Retry; r != nil {
		if r.MaxAttempts != nil {
			cfg.Retry.MaxAttempts = *r.MaxAttempts
		}
		if err := parseDuration("retry.interval", r.Interval, &cfg.Retry.Interval); err != nil {
			return Config{}, err
		}
		if err := parseDuration("retry.attempt_timeout", r.AttemptTimeout, &cfg.Retry.AttemptTimeout); err != nil {
			return Config{}, err
		}
	}

	if b := fc.CircuitBreaker; b != nil {
		if b.Name != nil {
			cfg.CircuitBreaker.Name = *b.Name
		}
		if b.FailureRatio != nil {
			if *b.FailureRatio <= 0 || *b.FailureRatio > 1 {
				return Config{}, fmt.Errorf("circuit_breaker.failure_ratio must be in (0, 1], got %v", *b.FailureRatio)
			}
			cfg.CircuitBreaker.FailureRatio = *b.FailureRatio
		}
		if b.MinRequests != nil {
			cfg.CircuitBreaker.MinRequests = *b.MinRequests
		}
		if b.HalfOpenMaxRequests != nil {
			cfg.CircuitBreaker.HalfOpenMaxRequests = *b.HalfOpenMaxRequests
		}
		if err := parseDuration("circuit_breaker.interval", b.Interval, &cfg.CircuitBreaker.Interval); err != nil {
			return Config{}, err
		}
		if err := parseDuration("circuit_breaker.open_timeout", b.OpenTimeout, &cfg.CircuitBreaker.OpenTimeout); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func parseDuration(field string, s *string, dst *time.Duration) error {
	if s == nil {
		return nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: must not be negative", field)
	}
	*dst = d
	return nil
}
