package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		require.NotNil(t, result)
		assert.Equal(t, "localhost", result.Server.Host)
		assert.Equal(t, 3000, result.Server.Port)
		assert.Equal(t, "inkpost.db", result.Database.Path)
		assert.Equal(t, "inkpost", result.Site.Title)
	})

	t.Run("later configs take precedence", func(t *testing.T) {
		base := &entities.Config{
			Server:   entities.ServerConfig{Host: "localhost", Port: 3000},
			Database: entities.DatabaseConfig{Path: "base.db", MaxOpenConns: 4},
			Site:     entities.SiteConfig{Title: "Base"},
		}
		override := &entities.Config{
			Server:   entities.ServerConfig{Host: "0.0.0.0"},
			Database: entities.DatabaseConfig{Path: "override.db"},
		}

		result := merger.Merge(base, nil, override)

		assert.Equal(t, "0.0.0.0", result.Server.Host)
		assert.Equal(t, 3000, result.Server.Port)
		assert.Equal(t, "override.db", result.Database.Path)
		assert.Equal(t, 4, result.Database.MaxOpenConns)
		assert.Equal(t, "Base", result.Site.Title)
	})

	t.Run("booleans only switch on", func(t *testing.T) {
		base := &entities.Config{Auth: entities.AuthConfig{CookieSecure: true}}
		override := &entities.Config{Logging: entities.LoggingConfig{Verbose: true}}

		result := merger.Merge(base, override)

		assert.True(t, result.Auth.CookieSecure)
		assert.True(t, result.Logging.Verbose)
	})

	t.Run("does not alias inputs", func(t *testing.T) {
		base := &entities.Config{Server: entities.ServerConfig{CORSOrigins: []string{"http://a"}}}

		result := merger.Merge(base)
		result.Server.CORSOrigins[0] = "http://b"

		assert.Equal(t, "http://a", base.Server.CORSOrigins[0])
	})

	t.Run("later trusted proxies replace earlier ones", func(t *testing.T) {
		global := &entities.Config{Server: entities.ServerConfig{TrustedProxies: []string{"10.0.0.0/8"}}}
		local := &entities.Config{Server: entities.ServerConfig{TrustedProxies: []string{"127.0.0.1"}}}

		result := merger.Merge(global, local)
		assert.Equal(t, []string{"127.0.0.1"}, result.Server.TrustedProxies)

		result.Server.TrustedProxies[0] = "192.0.2.1"
		assert.Equal(t, "127.0.0.1", local.Server.TrustedProxies[0])
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()
	base := &entities.Config{
		Server:   entities.ServerConfig{Host: "localhost", Port: 3000},
		Database: entities.DatabaseConfig{Path: "inkpost.db"},
	}

	result := merger.ApplyFlags(base, map[string]interface{}{
		"port":    8080,
		"host":    "",
		"db":      "/tmp/other.db",
		"verbose": true,
		"unknown": "ignored",
	})

	assert.Equal(t, 8080, result.Server.Port)
	assert.Equal(t, "localhost", result.Server.Host)
	assert.Equal(t, "/tmp/other.db", result.Database.Path)
	assert.True(t, result.Logging.Verbose)
	assert.Equal(t, 3000, base.Server.Port, "input must not be modified")
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()
	base := &entities.Config{
		Server: entities.ServerConfig{Host: "localhost", Port: 3000},
		Auth:   entities.AuthConfig{SessionTTLHours: 24},
	}

	t.Setenv(EnvHost, "blog.internal")
	t.Setenv(EnvPort, "not-a-number")
	t.Setenv(EnvDatabasePath, "/data/blog.db")
	t.Setenv(EnvAdminEmail, "kody@example.com")
	t.Setenv(EnvSessionTTLHours, "48")
	t.Setenv(EnvCookieSecure, "true")
	t.Setenv(EnvCORSOrigins, " https://blog.example.com , ,https://www.example.com")

	result := merger.ApplyEnvVars(base)

	assert.Equal(t, "blog.internal", result.Server.Host)
	assert.Equal(t, 3000, result.Server.Port)
	assert.Equal(t, "/data/blog.db", result.Database.Path)
	assert.Equal(t, "kody@example.com", result.Auth.AdminEmail)
	assert.Equal(t, 48, result.Auth.SessionTTLHours)
	assert.True(t, result.Auth.CookieSecure)
	assert.Equal(t, []string{"https://blog.example.com", "https://www.example.com"}, result.Server.CORSOrigins)
}

func TestGetDefaultConfig_Env(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvLogVerbose, "yes")

	config := GetDefaultConfig()

	assert.Equal(t, 9090, config.Server.Port)
	assert.False(t, config.Logging.Verbose, "unparseable bool falls back to default")
	assert.NoError(t, config.Validate())
}
