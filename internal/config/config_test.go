package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/guise-dev/guise/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want %q", cfg.Inspect.Addr, DefaultInspectAddr)
	}
	if cfg.Inspect.HistorySize != DefaultHistorySize {
		t.Errorf("Inspect.HistorySize = %d, want %d", cfg.Inspect.HistorySize, DefaultHistorySize)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); !errors.HasCode(err, errors.ConfigNotFound) {
		t.Fatalf("Load(empty dir) error = %v, want %s", err, errors.ConfigNotFound)
	}

	writeFile(t, dir, ConfigFileName, `{
  "name": "todo",
  "inspect": {"addr": ":9000", "allowedOrigins": ["http://localhost:5173"]},
  "metrics": {"enabled": false, "subsystem": "ui"},
  "archive": {"enabled": true, "bucket": "snaps", "region": "eu-west-1"},
  "demo": {"clicks": 7}
}
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := &Config{
		Name: "todo",
		Inspect: InspectConfig{
			Addr:           ":9000",
			HistorySize:    DefaultHistorySize,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Metrics: MetricsConfig{Enabled: false, Namespace: DefaultNamespace, Subsystem: "ui"},
		Archive: ArchiveConfig{Enabled: true, Bucket: "snaps", Prefix: "guise/commits", Region: "eu-west-1"},
		Demo:    DemoConfig{Todos: DefaultTodos, Clicks: 7},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, YAMLFileName, `
name: counter
inspect:
  historySize: 16
demo:
  todos: 5
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "counter" || cfg.Inspect.HistorySize != 16 || cfg.Demo.Todos != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want default", cfg.Inspect.Addr)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `{"name": "json"}`)
	writeFile(t, dir, YAMLFileName, "name: yaml\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "json" {
		t.Errorf("Name = %q, want json", cfg.Name)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{"malformed json", "a.json", `{"name":`, errors.ConfigInvalid},
		{"unknown json key", "b.json", `{"bogus": 1}`, errors.ConfigInvalid},
		{"unknown yaml key", "c.yaml", "bogus: 1\n", errors.ConfigInvalid},
		{"bad extension", "d.toml", `name = "x"`, errors.ConfigFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, err := LoadFile(path); !errors.HasCode(err, tt.wantCode) {
				t.Errorf("LoadFile error = %v, want %s", err, tt.wantCode)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !errors.HasCode(err, errors.ConfigNotFound) {
		t.Errorf("LoadFile(missing) error = %v", err)
	}
}

func TestEmptyYAMLUsesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Demo.Todos != DefaultTodos {
		t.Errorf("Demo.Todos = %d, want %d", cfg.Demo.Todos, DefaultTodos)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"negative history", func(c *Config) { c.Inspect.HistorySize = -1 }, errors.ConfigValue},
		{"negative clicks", func(c *Config) { c.Demo.Clicks = -2 }, errors.ConfigValue},
		{"archive without bucket", func(c *Config) { c.Archive.Enabled = true }, errors.ArchiveMisconfig},
		{"archive with bucket", func(c *Config) { c.Archive.Enabled = true; c.Archive.Bucket = "b" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Name = "saved"
	cfg.Archive.Bucket = "b"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestAllowsOrigin(t *testing.T) {
	cfg := New()
	cfg.Inspect.AllowedOrigins = []string{"http://localhost:5173"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:7070", true},
		{"http://localhost:5173", true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		if got := cfg.AllowsOrigin(tt.origin, "localhost:7070"); got != tt.want {
			t.Errorf("AllowsOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
