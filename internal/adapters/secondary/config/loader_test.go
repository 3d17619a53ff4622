package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestTOMLLoader_LoadGlobal(t *testing.T) {
	ctx := context.Background()

	t.Run("creates config on first run", func(t *testing.T) {
		t.Setenv(EnvSessionSecret, "a-secret-that-must-not-end-up-in-the-file")
		globalPath := filepath.Join(t.TempDir(), "nested", "config.toml")
		loader := NewTOMLLoaderWithPath(globalPath)

		config, err := loader.LoadGlobal(ctx)
		require.NoError(t, err)
		require.NotNil(t, config)

		info, err := os.Stat(globalPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		assert.Equal(t, "localhost", config.Server.Host)
		assert.Equal(t, 3000, config.Server.Port)
		assert.Equal(t, "inkpost.db", config.Database.Path)
		assert.Equal(t, "__session", config.Auth.CookieName)
		assert.Empty(t, config.Auth.SessionSecret)

		data, err := os.ReadFile(globalPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "a-secret-that-must-not-end-up-in-the-file")
	})

	t.Run("loads existing config", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, globalPath, `
[server]
host = "0.0.0.0"
port = 8080

[database]
path = "/var/lib/inkpost/blog.db"

[auth]
admin_email = "kody@example.com"
cookie_secure = true

[site]
title = "Field Notes"
`)

		config, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(ctx)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", config.Server.Host)
		assert.Equal(t, 8080, config.Server.Port)
		assert.Equal(t, "/var/lib/inkpost/blog.db", config.Database.Path)
		assert.Equal(t, "kody@example.com", config.Auth.AdminEmail)
		assert.True(t, config.Auth.CookieSecure)
		assert.Equal(t, "Field Notes", config.Site.Title)
	})

	t.Run("fails with invalid TOML", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, globalPath, "[server\nhost = \"localhost\"\n")

		_, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing TOML")
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		globalPath := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, globalPath, "[theme]\nname = \"dark\"\n")

		_, err := NewTOMLLoaderWithPath(globalPath).LoadGlobal(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown keys")
	})
}

func TestTOMLLoader_LoadLocal(t *testing.T) {
	ctx := context.Background()
	loader := NewTOMLLoaderWithPath(filepath.Join(t.TempDir(), "config.toml"))

	t.Run("missing local config is not an error", func(t *testing.T) {
		config, err := loader.LoadLocal(ctx, t.TempDir())
		assert.NoError(t, err)
		assert.Nil(t, config)
	})

	t.Run("partial local config", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, LocalConfigName), "[site]\ntitle = \"Local\"\n")

		config, err := loader.LoadLocal(ctx, dir)
		require.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, "Local", config.Site.Title)
		assert.Empty(t, config.Database.Path)
	})
}

func TestTOMLLoader_Paths(t *testing.T) {
	loader := NewTOMLLoaderWithPath("/etc/inkpost/config.toml")

	assert.Equal(t, "/etc/inkpost/config.toml", loader.GetGlobalPath())
	assert.Equal(t, filepath.Join("/srv/blog", "inkpost.toml"), loader.GetLocalPath("/srv/blog"))
	assert.Contains(t, NewTOMLLoader().GetGlobalPath(), filepath.Join(".config", "inkpost", "config.toml"))
}
