package main

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/fredcamaral/inkpost/internal/adapters/primary/http"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/cache"
)

func TestServeCommand(t *testing.T) {
	t.Run("rejects positional arguments", func(t *testing.T) {
		cmd := &cobra.Command{Use: serveCmd.Use, Args: serveCmd.Args, RunE: func(*cobra.Command, []string) error { return nil }}
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"extra"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("flags are registered", func(t *testing.T) {
		assert.NotNil(t, serveCmd.Flags().Lookup("port"))
		assert.NotNil(t, serveCmd.Flags().Lookup("host"))
		assert.NotNil(t, serveCmd.Flags().Lookup("open"))
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup("db"))
	})
}

func TestCheckPortAvailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port

	err = checkPortAvailable("127.0.0.1", port)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")

	require.NoError(t, listener.Close())
	assert.NoError(t, checkPortAvailable("127.0.0.1", port))
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig(t)
	a := openTestApp(t)

	server, err := newHTTPServer(cfg, a)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/posts")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health httpadapter.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.NotNil(t, health.Runtime)
	assert.Equal(t, int64(1), health.Runtime.HTTPRequests)
	require.NotNil(t, health.Runtime.RenderCache)
	assert.Equal(t, int64(cache.DefaultMaxBytes), health.Runtime.RenderCache.MaxBytes)
}

func TestBrowseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/posts", browseURL("localhost", 3000))
	assert.Equal(t, "http://localhost:8080/posts", browseURL("0.0.0.0", 8080))
	assert.Equal(t, "http://localhost:8080/posts", browseURL("", 8080))
	assert.Equal(t, "http://127.0.0.1:3000/posts", browseURL("127.0.0.1", 3000))
	assert.Equal(t, "http://[::1]:3000/posts", browseURL("::1", 3000))
}
