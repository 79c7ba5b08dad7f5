package commands

import "github.com/spf13/cobra"

func (c *CLI) newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Restore the project files from before binaries were used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Rollback(cmd.Context())
		},
	}
}
