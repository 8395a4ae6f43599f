package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Olprog59/go-delegation/internal/app"
	"github.com/Olprog59/go-delegation/internal/domain"
	"github.com/spf13/cobra"
)

// OperationsCmd groups operation commands / Regroupe les commandes d'opérations
func OperationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "Inspect and manage delegation operations",
		Long:    "List, seed and update delegation operations as a given user, with the same ownership rules as the API",
	}

	cmd.AddCommand(operationsListCmd())
	cmd.AddCommand(operationsSeedCmd())
	cmd.AddCommand(operationsSetStatusCmd())

	return cmd
}

func operationsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operations visible to the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				caller, err := callerFromFlags(ctx, cmd, c)
				if err != nil {
					return err
				}

				ops, err := c.OperationSvc.List(ctx, caller)
				if err != nil {
					return fmt.Errorf("failed to list operations: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(ops) == 0 {
					fmt.Fprintln(out, "No operations found.")
					return nil
				}
				printOperations(out, ops)
				return nil
			})
		},
	}
	addCallerFlags(cmd)
	return cmd
}

func operationsSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the sample operation when the user has none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				caller, err := callerFromFlags(ctx, cmd, c)
				if err != nil {
					return err
				}

				op, created, err := c.OperationSvc.Seed(ctx, caller)
				if err != nil {
					return fmt.Errorf("failed to seed operations: %w", err)
				}

				out := cmd.OutOrStdout()
				if !created {
					fmt.Fprintf(out, "%s %s already has operations, nothing seeded\n", markInfo, caller.ID)
					return nil
				}
				fmt.Fprintf(out, "%s Seeded operation %s: %s\n", markOK, op.ID, op.Name)
				fmt.Fprintf(out, "  Status: %s\n", op.Status)
				return nil
			})
		},
	}
	addCallerFlags(cmd)
	return cmd
}

func operationsSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change the status of an operation",
		Long: `Change the status of an operation.

Valid statuses: "En attente", "En cours", "Terminé".
Only the owner or an admin may change a status.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			status := domain.OperationStatus(args[1])

			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				caller, err := callerFromFlags(ctx, cmd, c)
				if err != nil {
					return err
				}

				op, err := c.OperationSvc.UpdateStatus(ctx, caller, id, status)
				if err != nil {
					return fmt.Errorf("failed to update operation %s: %w", id, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s Operation %s is now %q\n", markOK, op.ID, op.Status)
				return nil
			})
		},
	}
	addCallerFlags(cmd)
	return cmd
}

func printOperations(out io.Writer, ops []*domain.DelegationOperation) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLIENT\tTYPE\tSTATUS\tOWNER\tCREATED")
	fmt.Fprintln(w, "--\t----\t------\t----\t------\t-----\t-------")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			op.ID, op.Name, op.ClientName, op.Type, op.Status, op.UserID,
			op.CreatedAt.UTC().Format(time.DateTime))
	}
	w.Flush()
}
