package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/herd/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Fill the identity pool and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath(cmd),
				Listen:     listen,
			})
		},
	}
	cmd.Flags().StringP("listen", "l", "", "Listen address, overriding the configuration")
	return cmd
}
