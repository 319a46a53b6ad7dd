package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Archive.Name != "" {
		t.Errorf("expected no default archive name, got %s", cfg.Archive.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid archive name",
			modify:  func(c *Config) { c.Archive.Name = "kidney.omex" },
			wantErr: false,
		},
		{
			name:    "archive name with space",
			modify:  func(c *Config) { c.Archive.Name = "kidney model.omex" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
		},
		{
			name:    "zero debounce",
			modify:  func(c *Config) { c.Watch.Debounce = 0 },
			wantErr: true,
		},
		{
			name:    "empty prefix namespace",
			modify:  func(c *Config) { c.Annotate.Prefixes = map[string]string{"chebi": ""} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
archive:
  name: "kidney.omex"
  root: "/models"
annotate:
  tables: "tables.yaml"
  prefixes:
    chebi: "http://purl.obolibrary.org/obo/CHEBI_"
log:
  level: debug
watch:
  debounce: 2s
metrics:
  file: "/var/lib/node_exporter/semunits.prom"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Archive.Name != "kidney.omex" {
		t.Errorf("expected archive kidney.omex, got %s", cfg.Archive.Name)
	}
	if cfg.Archive.Root != "/models" {
		t.Errorf("expected root /models, got %s", cfg.Archive.Root)
	}
	if cfg.Annotate.Tables != "tables.yaml" {
		t.Errorf("expected tables tables.yaml, got %s", cfg.Annotate.Tables)
	}
	if cfg.Annotate.Prefixes["chebi"] != "http://purl.obolibrary.org/obo/CHEBI_" {
		t.Errorf("expected chebi prefix, got %v", cfg.Annotate.Prefixes)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Metrics.File != "/var/lib/node_exporter/semunits.prom" {
		t.Errorf("expected metrics file, got %s", cfg.Metrics.File)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := LoadFromFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("archive: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Annotate.Prefixes = map[string]string{"go": "http://purl.obolibrary.org/obo/GO_"}
	override := &Config{
		Archive: ArchiveConfig{
			Name: "override.omex",
		},
		Annotate: AnnotateConfig{
			Prefixes: map[string]string{"chebi": "http://purl.obolibrary.org/obo/CHEBI_"},
		},
		Metrics: MetricsConfig{
			File: "/tmp/m.prom",
		},
	}

	base.Merge(override)

	if base.Archive.Name != "override.omex" {
		t.Errorf("expected archive override.omex, got %s", base.Archive.Name)
	}
	// Log level should remain from base since override didn't set it
	if base.Log.Level != "info" {
		t.Errorf("expected log level to remain default, got %s", base.Log.Level)
	}
	if base.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected debounce to remain default, got %v", base.Watch.Debounce)
	}
	if len(base.Annotate.Prefixes) != 2 {
		t.Errorf("expected prefixes to be merged, got %v", base.Annotate.Prefixes)
	}
	if base.Metrics.File != "/tmp/m.prom" {
		t.Errorf("expected metrics file /tmp/m.prom, got %s", base.Metrics.File)
	}

	base.Merge(nil)
	if base.Archive.Name != "override.omex" {
		t.Error("merging nil must not change the config")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Archive.Name = "saved.omex"
	cfg.Watch.Debounce = 3 * time.Second

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Archive.Name != "saved.omex" {
		t.Errorf("expected archive saved.omex, got %s", loaded.Archive.Name)
	}
	if loaded.Watch.Debounce != 3*time.Second {
		t.Errorf("expected debounce 3s, got %v", loaded.Watch.Debounce)
	}
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "models", "kidney")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	user := DefaultConfig()
	user.Archive.Name = "user.omex"
	user.Log.Level = "warn"
	if err := user.SaveToFile(filepath.Join(home, UserConfigDir, UserConfigFile)); err != nil {
		t.Fatal(err)
	}

	projectCfg := filepath.Join(project, ProjectConfigFile)
	if err := os.WriteFile(projectCfg, []byte("archive:\n  name: project.omex\n"), 0644); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("metrics:\n  file: run.prom\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	loader.homeDir = home
	loader.workDir = nested

	cfg, err := loader.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Archive.Name != "project.omex" {
		t.Errorf("project config should override user config, got %s", cfg.Archive.Name)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("user config should apply where project is silent, got %s", cfg.Log.Level)
	}
	if cfg.Metrics.File != "run.prom" {
		t.Errorf("explicit config should apply, got %s", cfg.Metrics.File)
	}

	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit config must fail")
	}
}

func TestLoaderRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte("log:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	loader.homeDir = t.TempDir()
	loader.workDir = dir

	if _, err := loader.Load(""); err == nil {
		t.Error("expected validation error for unknown log level")
	}
}

func TestLoaderLayering_SilentLayersKeepLowerValues(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	userPath := filepath.Join(home, UserConfigDir, UserConfigFile)
	if err := os.MkdirAll(filepath.Dir(userPath), 0755); err != nil {
		t.Fatal(err)
	}
	userYAML := "log:\n  level: warn\nwatch:\n  debounce: 2s\n"
	if err := os.WriteFile(userPath, []byte(userYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte("archive:\n  name: project.omex\n"), 0644); err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("metrics:\n  file: run.prom\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	loader.homeDir = home
	loader.workDir = project

	cfg, err := loader.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level from user config lost, got %s", cfg.Log.Level)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("debounce from user config lost, got %v", cfg.Watch.Debounce)
	}
	if cfg.Archive.Name != "project.omex" {
		t.Errorf("expected project archive name, got %s", cfg.Archive.Name)
	}
	if cfg.Metrics.File != "run.prom" {
		t.Errorf("expected explicit metrics file, got %s", cfg.Metrics.File)
	}
}

func TestLoadLayer_LeavesUnsetFieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.yaml")
	if err := os.WriteFile(path, []byte("archive:\n  name: layer.omex\n"), 0644); err != nil {
		t.Fatal(err)
	}

	layer, err := loadLayer(path)
	if err != nil {
		t.Fatalf("loadLayer() error = %v", err)
	}
	if layer.Log.Level != "" || layer.Watch.Debounce != 0 {
		t.Errorf("unset fields should stay empty, got level=%q debounce=%v", layer.Log.Level, layer.Watch.Debounce)
	}

	full, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if full.Log.Level != "info" || full.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("LoadFromFile should fill defaults, got level=%q debounce=%v", full.Log.Level, full.Watch.Debounce)
	}
	if full.Archive.Name != "layer.omex" {
		t.Errorf("expected layer.omex, got %s", full.Archive.Name)
	}
}
