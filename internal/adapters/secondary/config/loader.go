package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// LocalConfigName is the per-directory config file picked up by LoadLocal
const LocalConfigName = "inkpost.toml"

// TOMLLoader reads the global and local TOML config files
type TOMLLoader struct {
	globalPath string
	localName  string
}

// NewTOMLLoader creates a loader rooted at ~/.config/inkpost/config.toml
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()
	return NewTOMLLoaderWithPath(filepath.Join(homeDir, ".config", "inkpost", "config.toml"))
}

// NewTOMLLoaderWithPath creates a loader with an explicit global config path
func NewTOMLLoaderWithPath(globalPath string) *TOMLLoader {
	return &TOMLLoader{
		globalPath: globalPath,
		localName:  LocalConfigName,
	}
}

// LoadGlobal loads the global config, writing the defaults on first run
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); os.IsNotExist(err) {
		if err := l.CreateDefaults(ctx, l.globalPath); err != nil {
			return nil, fmt.Errorf("creating defaults: %w", err)
		}
	}

	return l.loadConfig(l.globalPath)
}

// LoadLocal loads inkpost.toml from dir. A missing file yields (nil, nil).
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := l.GetLocalPath(dir)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, nil
	}

	return l.loadConfig(localPath)
}

// CreateDefaults writes the default configuration to path.
// The session secret is never persisted in the generated file.
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	defaults := GetDefaultConfig()
	defaults.Auth.SessionSecret = ""

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) // #nosec G304 - path is the global config path
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(defaults); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig decodes a file and rejects unknown keys
func (l *TOMLLoader) loadConfig(path string) (*entities.Config, error) {
	var config entities.Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}

	return &config, nil
}

// Ensure TOMLLoader implements ports.ConfigLoader
var _ ports.ConfigLoader = (*TOMLLoader)(nil)
