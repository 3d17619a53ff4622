package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// SourceDefaults names the built-in defaults in a source list
const SourceDefaults = "defaults"

// ConfigService resolves the effective configuration from defaults, config
// files, the environment and CLI flags
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{loader: loader, merger: merger}
}

// LoadConfig returns the validated effective configuration
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	cfg, _, err := s.Resolve(ctx, workingDir, flags)
	return cfg, err
}

// Resolve is LoadConfig that also names the layers the configuration was
// built from, lowest precedence first: SourceDefaults, then the global and
// local file paths when they were read. Environment and flag overrides are
// applied on top and are not listed.
func (s *ConfigService) Resolve(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, []string, error) {
	layers := []*entities.Config{s.GetDefaultConfig()}
	sources := []string{SourceDefaults}

	global, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading global config: %w", err)
	}
	if global != nil {
		layers = append(layers, global)
		sources = append(sources, s.loader.GetGlobalPath())
	}

	local, err := s.loader.LoadLocal(ctx, workingDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading local config: %w", err)
	}
	if local != nil {
		layers = append(layers, local)
		sources = append(sources, s.loader.GetLocalPath(workingDir))
	}

	cfg := s.merger.Merge(layers...)
	cfg = s.merger.ApplyEnvVars(cfg)
	cfg = s.merger.ApplyFlags(cfg, flags)

	if err := s.ValidateConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, sources, nil
}

// GetDefaultConfig returns the default configuration. Merging nothing yields
// the defaults, which keeps this package free of the config adapter.
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}
	return config.Validate()
}

// CreateGlobalConfig writes the global configuration file with defaults
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

// Ensure ConfigService implements ports.ConfigService
var _ ports.ConfigService = (*ConfigService)(nil)
