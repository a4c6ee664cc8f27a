package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/guise-dev/guise/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "guise.json"

	// YAMLFileName is the alternative YAML configuration file.
	YAMLFileName = "guise.yaml"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultHistorySize is the default number of commits kept by the inspector.
	DefaultHistorySize = 256

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "guise"

	// DefaultTodos is the number of items the todo demo starts with.
	DefaultTodos = 3
)

// Config represents guise.json.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Inspect configures the inspector HTTP server.
	Inspect InspectConfig `json:"inspect,omitempty" yaml:"inspect,omitempty"`

	// Metrics configures the Prometheus recorder.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Archive configures snapshot uploads to S3.
	Archive ArchiveConfig `json:"archive,omitempty" yaml:"archive,omitempty"`

	// Demo configures the built-in demos.
	Demo DemoConfig `json:"demo,omitempty" yaml:"demo,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Addr is the listen address (e.g., "localhost:7070").
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// HistorySize is the number of commits kept in memory.
	HistorySize int `json:"historySize,omitempty" yaml:"historySize,omitempty"`

	// AllowedOrigins lists websocket origins accepted besides same-origin.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled mounts /metrics on the inspector.
	Enabled bool `json:"enabled" yaml:"enabled"`

	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// ArchiveConfig contains S3 snapshot archive settings.
type ArchiveConfig struct {
	// Enabled uploads every commit snapshot.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// DemoConfig contains demo settings.
type DemoConfig struct {
	// Todos is the number of items the todo demo starts with.
	Todos int `json:"todos,omitempty" yaml:"todos,omitempty"`

	// Clicks is the number of scripted clicks the counter demo performs.
	Clicks int `json:"clicks,omitempty" yaml:"clicks,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Inspect: InspectConfig{
			Addr:        DefaultInspectAddr,
			HistorySize: DefaultHistorySize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Archive: ArchiveConfig{
			Prefix: "guise/commits",
		},
		Demo: DemoConfig{
			Todos:  DefaultTodos,
			Clicks: 3,
		},
	}
}

// Load reads configuration from dir. It looks for guise.json, then
// guise.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.ConfigNotFound).
		WithDetail("No " + ConfigFileName + " or " + YAMLFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, errors.New(errors.ConfigFormat).
			WithDetail("Unsupported configuration file " + filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ConfigNotFound).
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New(errors.ConfigInvalid).Wrap(err)
	}

	cfg := New()
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if stderrors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file for syntax errors and unknown keys")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration as JSON to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.ConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.ConfigInvalid).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Inspect.HistorySize == 0 {
		c.Inspect.HistorySize = DefaultHistorySize
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Demo.Todos == 0 {
		c.Demo.Todos = DefaultTodos
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspect.HistorySize < 0 {
		return errors.New(errors.ConfigValue).
			WithDetail("inspect.historySize must not be negative")
	}
	if c.Demo.Todos < 0 || c.Demo.Clicks < 0 {
		return errors.New(errors.ConfigValue).
			WithDetail("demo.todos and demo.clicks must not be negative")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New(errors.ArchiveMisconfig).
			WithSuggestion("Set archive.bucket or disable archive")
	}
	return nil
}

// AllowsOrigin reports whether a websocket origin is accepted. Requests
// without an Origin header and same-host origins are always accepted.
func (c *Config) AllowsOrigin(origin, host string) bool {
	if origin == "" {
		return true
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	if trimmed == host {
		return true
	}
	for _, o := range c.Inspect.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
