package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialise configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the global config file with defaults, replacing any existing one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := newConfigService(cmd)
		if err := svc.CreateGlobalConfig(cmd.Context()); err != nil {
			return fmt.Errorf("creating global config: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote default configuration")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, sources, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "sources:  %s\n", strings.Join(sources, ", "))
		_, _ = fmt.Fprintf(out, "server:   %s:%d (%s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.Environment)
		_, _ = fmt.Fprintf(out, "database: %s\n", cfg.Database.Path)
		_, _ = fmt.Fprintf(out, "admin:    %s\n", cfg.Auth.AdminEmail)
		_, _ = fmt.Fprintf(out, "secret:   %s\n", redact(cfg.Auth.SessionSecret))
		_, _ = fmt.Fprintf(out, "site:     %s\n", cfg.Site.GetTitle())
		_, _ = fmt.Fprintf(out, "logging:  %s (verbose=%t)\n", cfg.Logging.GetLevel(), cfg.Logging.Verbose)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

func redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set)"
}
