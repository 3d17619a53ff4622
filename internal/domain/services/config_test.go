package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) CreateDefaults(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockConfigLoader) GetGlobalPath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfigLoader) GetLocalPath(dir string) string {
	args := m.Called(dir)
	return args.String(0)
}

type MockConfigMerger struct {
	mock.Mock
}

func (m *MockConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	args := m.Called(configs)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	args := m.Called(config, flags)
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	args := m.Called(config)
	return args.Get(0).(*entities.Config)
}

// mergeOf matches a Merge call with n configurations
func mergeOf(n int) interface{} {
	return mock.MatchedBy(func(configs []*entities.Config) bool { return len(configs) == n })
}

func validConfig(port int) *entities.Config {
	return &entities.Config{
		Server:   entities.ServerConfig{Host: "localhost", Port: port},
		Database: entities.DatabaseConfig{Path: "inkpost.db"},
	}
}

const (
	testGlobalPath = "/home/user/.config/inkpost/config.toml"
	testWorkDir    = "/srv/blog"
	testLocalPath  = "/srv/blog/inkpost.toml"
)

func TestConfigService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("applies every layer in order", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}

		defaults, global, local := validConfig(3000), validConfig(4000), validConfig(5000)
		merged, fromEnv, final := validConfig(5000), validConfig(5001), validConfig(6000)
		flags := map[string]interface{}{"port": 6000}

		merger.On("Merge", mergeOf(0)).Return(defaults).Once()
		loader.On("LoadGlobal", ctx).Return(global, nil)
		loader.On("GetGlobalPath").Return(testGlobalPath)
		loader.On("LoadLocal", ctx, testWorkDir).Return(local, nil)
		loader.On("GetLocalPath", testWorkDir).Return(testLocalPath)
		merger.On("Merge", mock.MatchedBy(func(configs []*entities.Config) bool {
			return len(configs) == 3 && configs[0] == defaults && configs[1] == global && configs[2] == local
		})).Return(merged).Once()
		merger.On("ApplyEnvVars", merged).Return(fromEnv)
		merger.On("ApplyFlags", fromEnv, flags).Return(final)

		cfg, sources, err := NewConfigService(loader, merger).Resolve(ctx, testWorkDir, flags)

		require.NoError(t, err)
		assert.Same(t, final, cfg)
		assert.Equal(t, []string{SourceDefaults, testGlobalPath, testLocalPath}, sources)
		loader.AssertExpectations(t)
		merger.AssertExpectations(t)
	})

	t.Run("no local file", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}

		cfg := validConfig(4000)
		merger.On("Merge", mergeOf(0)).Return(validConfig(3000)).Once()
		loader.On("LoadGlobal", ctx).Return(validConfig(4000), nil)
		loader.On("GetGlobalPath").Return(testGlobalPath)
		loader.On("LoadLocal", ctx, testWorkDir).Return(nil, nil)
		merger.On("Merge", mergeOf(2)).Return(cfg).Once()
		merger.On("ApplyEnvVars", cfg).Return(cfg)
		merger.On("ApplyFlags", cfg, map[string]interface{}(nil)).Return(cfg)

		_, sources, err := NewConfigService(loader, merger).Resolve(ctx, testWorkDir, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{SourceDefaults, testGlobalPath}, sources)
		loader.AssertNotCalled(t, "GetLocalPath", testWorkDir)
	})

	t.Run("invalid result", func(t *testing.T) {
		loader := &MockConfigLoader{}
		merger := &MockConfigMerger{}

		merger.On("Merge", mock.Anything).Return(validConfig(3000))
		loader.On("LoadGlobal", ctx).Return(nil, nil)
		loader.On("LoadLocal", ctx, testWorkDir).Return(nil, nil)
		merger.On("ApplyEnvVars", mock.Anything).Return(validConfig(3000))
		merger.On("ApplyFlags", mock.Anything, mock.Anything).Return(validConfig(-1))

		cfg, sources, err := NewConfigService(loader, merger).Resolve(ctx, testWorkDir, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Nil(t, cfg)
		assert.Nil(t, sources)
	})

	loadErr := errors.New("toml: line 3: expected '='")
	for _, tt := range []struct {
		name   string
		global error
		local  error
		want   string
	}{
		{name: "global file error", global: loadErr, want: "loading global config"},
		{name: "local file error", local: loadErr, want: "loading local config"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			loader := &MockConfigLoader{}
			merger := &MockConfigMerger{}

			merger.On("Merge", mock.Anything).Return(validConfig(3000))
			if tt.global != nil {
				loader.On("LoadGlobal", ctx).Return(nil, tt.global)
			} else {
				loader.On("LoadGlobal", ctx).Return(nil, nil)
			}
			loader.On("LoadLocal", ctx, testWorkDir).Return(nil, tt.local)

			_, _, err := NewConfigService(loader, merger).Resolve(ctx, testWorkDir, nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, loadErr)
			assert.Contains(t, err.Error(), tt.want)
			merger.AssertNotCalled(t, "ApplyEnvVars", mock.Anything)
		})
	}
}

func TestConfigService_LoadConfig(t *testing.T) {
	loader := &MockConfigLoader{}
	merger := &MockConfigMerger{}

	cfg := validConfig(3000)
	merger.On("Merge", mock.Anything).Return(cfg)
	loader.On("LoadGlobal", mock.Anything).Return(nil, nil)
	loader.On("LoadLocal", mock.Anything, testWorkDir).Return(nil, nil)
	merger.On("ApplyEnvVars", cfg).Return(cfg)
	merger.On("ApplyFlags", cfg, mock.Anything).Return(cfg)

	got, err := NewConfigService(loader, merger).LoadConfig(context.Background(), testWorkDir, nil)

	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestConfigService_GetDefaultConfig(t *testing.T) {
	merger := &MockConfigMerger{}
	defaults := validConfig(3000)
	merger.On("Merge", mergeOf(0)).Return(defaults)

	assert.Same(t, defaults, NewConfigService(&MockConfigLoader{}, merger).GetDefaultConfig())
	merger.AssertExpectations(t)
}

func TestConfigService_ValidateConfig(t *testing.T) {
	service := NewConfigService(&MockConfigLoader{}, &MockConfigMerger{})

	assert.NoError(t, service.ValidateConfig(validConfig(3000)))
	assert.EqualError(t, service.ValidateConfig(nil), "config cannot be nil")
	assert.Error(t, service.ValidateConfig(validConfig(-1)))
}

func TestConfigService_CreateGlobalConfig(t *testing.T) {
	t.Run("writes defaults to the global path", func(t *testing.T) {
		loader := &MockConfigLoader{}
		loader.On("GetGlobalPath").Return(testGlobalPath)
		loader.On("CreateDefaults", mock.Anything, testGlobalPath).Return(nil)

		err := NewConfigService(loader, &MockConfigMerger{}).CreateGlobalConfig(context.Background())

		assert.NoError(t, err)
		loader.AssertExpectations(t)
	})

	t.Run("returns the write error", func(t *testing.T) {
		loader := &MockConfigLoader{}
		denied := errors.New("permission denied")
		loader.On("GetGlobalPath").Return(testGlobalPath)
		loader.On("CreateDefaults", mock.Anything, testGlobalPath).Return(denied)

		err := NewConfigService(loader, &MockConfigMerger{}).CreateGlobalConfig(context.Background())

		assert.ErrorIs(t, err, denied)
	})
}
