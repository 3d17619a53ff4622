package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/inkpost/internal/adapters/secondary/auth"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/cache"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/config"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/parser"
	"github.com/fredcamaral/inkpost/internal/adapters/secondary/storage"
	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
	"github.com/fredcamaral/inkpost/internal/domain/services"
)

// newConfigService picks the global config file from --config when given
func newConfigService(cmd *cobra.Command) *services.ConfigService {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderWithPath(path)
	}
	return services.NewConfigService(loader, config.NewConfigMerger())
}

// loadConfig resolves defaults, config files, environment and flags
func loadConfig(cmd *cobra.Command) (*entities.Config, error) {
	cfg, _, err := resolveConfig(cmd)
	return cfg, err
}

// resolveConfig is loadConfig that also returns the files that were read
func resolveConfig(cmd *cobra.Command) (*entities.Config, []string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving working directory: %w", err)
	}

	cfg, sources, err := newConfigService(cmd).Resolve(cmd.Context(), workingDir, collectFlags(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, sources, nil
}

// collectFlags returns the overrides the user actually set
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := cmd.Flags()

	if set.Changed("port") {
		flags["port"], _ = set.GetInt("port")
	}
	for _, name := range []string{"host", "db", "log-level"} {
		if set.Changed(name) {
			flags[name], _ = set.GetString(name)
		}
	}
	if set.Changed("verbose") {
		flags["verbose"], _ = set.GetBool("verbose")
	}
	return flags
}

// redirectLogOutput appends log output to cfg.File as well as stderr. The
// returned func restores stderr-only output and closes the file.
func redirectLogOutput(cfg entities.LoggingConfig) (func(), error) {
	if cfg.File == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 - path from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// ensureSessionSecret fills in a random secret when none is configured and
// reports whether it did. Sessions signed with it end when the process exits.
func ensureSessionSecret(cfg *entities.AuthConfig) (bool, error) {
	if cfg.SessionSecret != "" {
		return false, nil
	}

	buf := make([]byte, auth.MinSecretLength)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("generating session secret: %w", err)
	}
	cfg.SessionSecret = hex.EncodeToString(buf)
	return true, nil
}

// app holds the store and the domain services built on it
type app struct {
	db      *storage.DB
	clock   ports.TimeProvider
	renders *cache.RenderCache
	posts   *services.PostService
	forms   *services.PostFormController
	auth    *services.AuthService
	parser  *parser.FrontmatterParser
}

// openApp opens the database and wires the services. The caller must Close it.
func openApp(ctx context.Context, cfg *entities.Config) (*app, error) {
	clock := ports.NewRealTimeProvider()

	if _, err := ensureSessionSecret(&cfg.Auth); err != nil {
		return nil, err
	}
	sessions, err := auth.NewJWTSessionManager(cfg.Auth.SessionSecret, cfg.Auth.GetSessionTTL(), clock)
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}

	db, err := storage.Open(ctx, cfg.Database, clock)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	postRepo := storage.NewPostRepository(db)
	renders := cache.NewRenderCache(parser.NewGoldmarkRenderer(), cache.DefaultMaxBytes, clock)
	return &app{
		db:      db,
		clock:   clock,
		renders: renders,
		posts:   services.NewPostService(postRepo, renders),
		forms:   services.NewPostFormController(postRepo),
		auth: services.NewAuthService(
			storage.NewUserRepository(db),
			sessions,
			auth.NewBcryptHasher(0),
			clock,
			cfg.Auth.AdminEmail,
		),
		parser: parser.NewFrontmatterParser(),
	}, nil
}

// Close closes the database
func (a *app) Close() error {
	return a.db.Close()
}
