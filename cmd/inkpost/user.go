package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user that can sign in. Only the user whose email matches
auth.admin_email in the config may edit posts.

Example:
  inkpost user create --email admin@example.com --password 'correct horse'`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().String("email", "", "Email address")
	userCreateCmd.Flags().String("password", "", "Password (at least 8 characters)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return createUser(cmd.Context(), a, email, password, cmd.OutOrStdout())
}

func createUser(ctx context.Context, a *app, email, password string, out io.Writer) error {
	user, err := a.auth.CreateUser(ctx, email, password)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Created user %s (%s)\n", user.Email, user.ID)
	return nil
}
