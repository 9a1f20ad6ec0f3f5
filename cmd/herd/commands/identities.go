package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/herd/internal/app"
	"go.trai.ch/herd/internal/ui/term"
)

func (c *CLI) newIdentitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identities",
		Short: "Manage persisted client identities",
	}
	cmd.AddCommand(c.newIdentitiesListCmd())
	cmd.AddCommand(c.newIdentitiesCreateCmd())
	return cmd
}

func (c *CLI) newIdentitiesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted identities, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ids, err := c.app.ListIdentities(cmd.Context(), app.IdentityOptions{
				ConfigPath: configPath(cmd),
				Count:      limit,
			})
			if err != nil {
				return err
			}

			out := term.NewOutput(cmd.OutOrStdout())
			for _, id := range ids {
				created := out.String(id.CreatedAt.UTC().Format(time.RFC3339)).Foreground(term.Color(term.Slate))
				_, _ = fmt.Fprintf(out, "%s  %s\n", id.ID, created)
			}
			_, _ = fmt.Fprintf(out, "%d identities\n", len(ids))
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of identities to list (0 lists all)")
	return cmd
}

func (c *CLI) newIdentitiesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register new identities and persist them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			n, err := c.app.CreateIdentities(cmd.Context(), app.IdentityOptions{
				ConfigPath: configPath(cmd),
				Count:      count,
			})
			if err != nil {
				return err
			}

			out := term.NewOutput(cmd.OutOrStdout())
			mark := out.String(term.Check).Foreground(term.Color(term.Green))
			_, _ = fmt.Fprintf(out, "%s created %d of %d identities\n", mark, n, count)
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 1, "Number of identities to create")
	return cmd
}
