package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Olprog59/go-delegation/internal/app"
	"github.com/spf13/cobra"
)

// FormsCmd groups form catalog commands / Regroupe les commandes du catalogue de formulaires
func FormsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Inspect the embedded form catalog",
	}
	cmd.AddCommand(formsListCmd())
	return cmd
}

func formsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the forms offered to users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				catalog := c.Bridge.Catalog()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SLUG\tTYPE\tOPERATION\tEMBED")
				fmt.Fprintln(w, "----\t----\t---------\t-----")
				for _, f := range catalog.All() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Slug, f.Type, f.OperationType, catalog.EmbedURL(f))
				}
				return w.Flush()
			})
		},
	}
}
