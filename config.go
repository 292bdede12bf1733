package trackflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the service configuration.
// Start from DefaultConfig and override; the zero-value fails Validate
// (no event vendor, no page-size bounds).
type Config struct {
	Query   QueryConfig   `json:"query" yaml:"query"`
	Events  EventsConfig  `json:"events" yaml:"events"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// QueryConfig bounds listing page sizes.
type QueryConfig struct {
	// DefaultLimit applies when a caller does not specify a page size.
	DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
	// MaxLimit caps the page size a caller may request.
	MaxLimit int `json:"maxLimit" yaml:"maxLimit"`
}

// EventsConfig selects the event queue vendor.
type EventsConfig struct {
	// Vendor is "memory" or "fs".
	Vendor string `json:"vendor" yaml:"vendor"`
	// JournalURL is the base location of the fs journal (any afs scheme);
	// required when Vendor is "fs".
	JournalURL string `json:"journalURL" yaml:"journalURL"`
}

// TracingConfig enables OpenTelemetry span export.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	// OutputFile receives exported spans; empty means stdout.
	OutputFile string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with the same defaults the
// constructors use when no configuration is supplied.
func DefaultConfig() *Config {
	return &Config{
		Query: QueryConfig{
			DefaultLimit: 20,
			MaxLimit:     200,
		},
		Events: EventsConfig{
			Vendor: "memory",
		},
		Tracing: TracingConfig{
			ServiceName: "trackflow",
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Query.DefaultLimit <= 0 {
		return fmt.Errorf("query.defaultLimit must be > 0")
	}
	if c.Query.MaxLimit < c.Query.DefaultLimit {
		return fmt.Errorf("query.maxLimit must be >= query.defaultLimit")
	}
	switch c.Events.Vendor {
	case "memory":
	case "fs":
		if c.Events.JournalURL == "" {
			return fmt.Errorf("events.journalURL is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported events.vendor: %q", c.Events.Vendor)
	}
	return nil
}

// LoadConfig reads a configuration file and merges it over the defaults.
// YAML is selected by the .yaml/.yml extension; anything else is parsed as
// JSON with comments and trailing commas allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid YAML config %s: %w", path, err)
		}
	default:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC config %s: %w", path, err)
		}
		if err := json.Unmarshal(standardized, config); err != nil {
			return nil, fmt.Errorf("invalid JSON config %s: %w", path, err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
