package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the file searched for in the working directory
	// and its parents.
	ProjectConfigFile = "semunits.yaml"
	// UserConfigDir is relative to the home directory.
	UserConfigDir = ".config/semunits"
	// UserConfigFile lives in UserConfigDir.
	UserConfigFile = "config.yaml"
)

// Loader resolves the effective configuration from up to three files laid
// over DefaultConfig.
type Loader struct {
	logger  *slog.Logger
	workDir string // project search start; cwd when empty
	homeDir string // user config base; os.UserHomeDir when empty
}

// NewLoader creates a loader that reports skipped layers to logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// layer is one optional config file. A required layer that fails to load
// aborts Load; an optional one is skipped with a warning.
type layer struct {
	name     string
	path     string
	required bool
}

// Load returns defaults overridden, in increasing precedence, by the user
// file, the nearest project file and explicitPath. Only explicitPath must
// exist. The merged result is validated.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	layers := []layer{
		{name: "user", path: l.userConfigPath()},
		{name: "project", path: l.findProjectConfig()},
		{name: "explicit", path: explicitPath, required: true},
	}
	for _, ly := range layers {
		if ly.path == "" {
			l.logger.Debug("Config layer absent", "layer", ly.name)
			continue
		}
		loaded, err := loadLayer(ly.path)
		switch {
		case err == nil:
			l.logger.Debug("Config layer loaded", "layer", ly.name, "path", ly.path)
			cfg.Merge(loaded)
		case ly.required:
			return nil, err
		case errors.Is(err, fs.ErrNotExist):
			l.logger.Debug("Config layer absent", "layer", ly.name, "path", ly.path)
		default:
			l.logger.Warn("Skipping unreadable config", "layer", ly.name, "path", ly.path, "error", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the work directory up to the filesystem root
// and returns the first ProjectConfigFile found.
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
