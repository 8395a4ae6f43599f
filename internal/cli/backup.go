package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Olprog59/go-delegation/internal/app"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// BackupCmd takes one database backup now / Effectue une sauvegarde immédiate
func BackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped copy of the SQLite database",
		Long:  "Write a timestamped copy of the SQLite database to backup.path using VACUUM INTO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				path, err := c.Backup(ctx)
				if errors.Is(err, app.ErrBackupUnsupported) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v (database.type=%s)\n",
						color.New(color.FgRed).Sprint("✗"), err, c.Config.Database.Type)
					return err
				}
				if err != nil {
					return fmt.Errorf("backup failed: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s Backup written to %s\n", markOK, path)
				return nil
			})
		},
	}
}
