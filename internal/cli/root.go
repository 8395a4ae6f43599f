// Package cli implements the delegctl operator commands.
// Every command loads the same configuration and container as the HTTP server.
package cli

import (
	"context"
	"fmt"

	"github.com/Olprog59/go-delegation/internal/app"
	"github.com/Olprog59/go-delegation/internal/config"
	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/Olprog59/go-delegation/internal/logging"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	markOK   = color.New(color.FgGreen).Sprint("✓")
	markWarn = color.New(color.FgYellow).Sprint("!")
	markInfo = color.New(color.FgBlue).Sprint("→")
)

// RootCmd builds the delegctl command tree / Construit l'arbre de commandes delegctl
func RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "delegctl",
		Short:   "Operator tooling for the delegation portal",
		Version: version,
		Long: `delegctl talks to the delegation database directly, using the same
configuration as the server (config.yaml, APP_* environment variables).

Use it to mint development tokens, inspect or seed operations, list the
embedded forms and take an on-demand SQLite backup.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(TokenCmd())
	rootCmd.AddCommand(OperationsCmd())
	rootCmd.AddCommand(FormsCmd())
	rootCmd.AddCommand(BackupCmd())

	return rootCmd
}

// loadConfig reads the file named by --config / Lit le fichier désigné par --config
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withContainer runs fn against a fully initialized container / Exécute fn avec un conteneur initialisé
// Logs go to stderr so stdout stays scriptable.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLogs := logging.Setup(app.LoggingOptions(cfg), cmd.ErrOrStderr())
	defer closeLogs()

	// Private registry: a CLI run never serves /metrics
	container, err := app.NewContainerWithRegistry(cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(cmd.Context(), container)
}

// callerFromFlags builds and syncs the acting identity / Construit et synchronise l'identité appelante
func callerFromFlags(ctx context.Context, cmd *cobra.Command, c *app.Container) (*domain.Caller, error) {
	userID, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")

	if userID == "" {
		return nil, fmt.Errorf("--user is required")
	}
	if email == "" {
		email = userID + "@delegctl.local"
	}

	caller := domain.NewCaller(userID, email, domain.ParseUserRole(role))
	if err := c.UserSvc.Sync(ctx, caller); err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return caller, nil
}

func addCallerFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "acting user id (JWT subject)")
	cmd.Flags().String("email", "", "acting user email")
	cmd.Flags().String("role", string(domain.RoleUser), "acting role: user, moderator or admin")
}
