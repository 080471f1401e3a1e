package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderFile is the YAML provider configuration.
//
//	priority: [apollo, pdl, endato]
//	bulk_priority: [endato]
//	call_timeout: 10s
//	retry:
//	  max_retries: 1
//	  backoff: 500ms
//	providers:
//	  apollo:
//	    base_url: https://api.apollo.io
//	    timeout: 8s
//	    rps: 5
//	    burst: 5
type ProviderFile struct {
	Priority     []string                    `yaml:"priority"`
	BulkPriority []string                    `yaml:"bulk_priority"`
	CallTimeout  time.Duration               `yaml:"call_timeout"`
	Retry        RetryPolicy                 `yaml:"retry"`
	Providers    map[string]ProviderSettings `yaml:"providers"`
}

type RetryPolicy struct {
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
}

type ProviderSettings struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
}

// DefaultProviders is used when no file is configured.
func DefaultProviders() ProviderFile {
	return ProviderFile{
		Priority:     []string{"apollo", "pdl", "endato"},
		BulkPriority: []string{"endato"},
		CallTimeout:  10 * time.Second,
		Providers:    map[string]ProviderSettings{},
	}
}

// LoadProviders reads path. A blank path or a missing file yields the
// defaults; a present but malformed file is an error.
func LoadProviders(path string) (ProviderFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultProviders(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultProviders(), nil
		}
		return ProviderFile{}, fmt.Errorf("read provider file: %w", err)
	}
	return ParseProviders(b)
}

// ParseProviders decodes YAML and fills unset fields from the defaults.
func ParseProviders(b []byte) (ProviderFile, error) {
	cfg := DefaultProviders()
	var raw ProviderFile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return ProviderFile{}, fmt.Errorf("parse provider file: %w", err)
	}
	if len(raw.Priority) > 0 {
		cfg.Priority = raw.Priority
	}
	if len(raw.BulkPriority) > 0 {
		cfg.BulkPriority = raw.BulkPriority
	}
	if raw.CallTimeout > 0 {
		cfg.CallTimeout = raw.CallTimeout
	}
	if raw.Retry.MaxRetries < 0 || raw.Retry.Backoff < 0 {
		return ProviderFile{}, fmt.Errorf("parse provider file: retry values must not be negative")
	}
	cfg.Retry = raw.Retry
	for id, s := range raw.Providers {
		if s.RPS < 0 || s.Burst < 0 || s.Timeout < 0 {
			return ProviderFile{}, fmt.Errorf("parse provider file: provider %q has negative limits", id)
		}
		cfg.Providers[strings.ToLower(strings.TrimSpace(id))] = s
	}
	return cfg, nil
}

// Settings returns the settings for one provider id, zero when unset.
func (f ProviderFile) Settings(id string) ProviderSettings {
	return f.Providers[id]
}
