package ports

import (
	"context"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// LoadGlobal loads the global configuration file, creating it on first run
	LoadGlobal(ctx context.Context) (*entities.Config, error)

	// LoadLocal loads the optional inkpost.toml from a directory
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)

	// CreateDefaults writes a default configuration file at path
	CreateDefaults(ctx context.Context, path string) error

	GetGlobalPath() string
	GetLocalPath(dir string) string
}

// ConfigMerger defines the interface for merging configurations
type ConfigMerger interface {
	// Merge merges configurations with later ones taking precedence
	Merge(configs ...*entities.Config) *entities.Config

	// ApplyFlags applies CLI flag overrides
	ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config

	// ApplyEnvVars applies INKPOST_* environment overrides
	ApplyEnvVars(config *entities.Config) *entities.Config
}

// ConfigService defines the interface for the configuration service
type ConfigService interface {
	LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error)
	GetDefaultConfig() *entities.Config
	ValidateConfig(config *entities.Config) error
	CreateGlobalConfig(ctx context.Context) error
}
