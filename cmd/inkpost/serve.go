package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/inkpost/internal/adapters/primary/http"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/browser"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog",
	Long: `Start the HTTP server for the public blog and the admin post editor.
The server runs until interrupted and then shuts down gracefully.

Example:
  inkpost serve
  inkpost serve --port 8080 --db ./data/blog.db
  inkpost serve --open`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// defaults come from the config; these only override it
	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().Bool("open", false, "Open the blog in a browser once the server is up")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	restoreLog, err := redirectLogOutput(cfg.Logging)
	if err != nil {
		return err
	}
	defer restoreLog()

	logger := newLoggerFromConfig(cfg.Logging)

	generated, err := ensureSessionSecret(&cfg.Auth)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("No auth.session_secret configured; using a random one, sessions end on restart")
	}
	if cfg.Auth.AdminEmail == "" {
		logger.Warn("No auth.admin_email configured; nobody can use the post editor")
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Closing database: %v", err)
		}
	}()
	logger.Info("Using database %s", a.db.Path())

	server, err := newHTTPServer(cfg, a)
	if err != nil {
		return err
	}

	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	siteURL := browseURL(cfg.Server.Host, cfg.Server.Port)
	logger.Success("Server running at: %s", siteURL)

	if open, _ := cmd.Flags().GetBool("open"); open {
		if err := browser.NewLauncher().Open(ctx, siteURL); err != nil {
			logger.Warn("Could not open browser: %v", err)
		}
	}

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// ctx is already cancelled; Stop applies the configured shutdown timeout
	if err := server.Stop(context.Background()); err != nil {
		logger.Error("Error during shutdown: %v", err)
		return err
	}
	return nil
}

// newHTTPServer wires the domain services into the HTTP adapter
func newHTTPServer(cfg *entities.Config, a *app) (*httpadapter.Server, error) {
	pages, err := renderer.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return httpadapter.NewServer(httpadapter.Services{
		Posts:   a.posts,
		Forms:   a.forms,
		Auth:    a.auth,
		Pages:   pages,
		Health:  a.db.Ping,
		Metrics: monitoring.NewMonitor(a.clock, a.renders),
	}, cfg), nil
}

// browseURL is the address a local browser should use for the server
func browseURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/posts"
}

// checkPortAvailable fails fast when the address cannot be bound
func checkPortAvailable(host string, port int) error {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use or cannot be bound: %w", port, err)
	}
	if err := listener.Close(); err != nil {
		return fmt.Errorf("failed to release port after testing: %w", err)
	}
	return nil
}
