package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rugby/internal/app"
)

func (c *CLI) newHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Compute and store target fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			xcargs, _ := cmd.Flags().GetStringArray("xcargs")
			return c.app.Hash(cmd.Context(), app.HashOptions{
				SelectOptions: selectOptions(cmd),
				BuildOptions:  xcargs,
			})
		},
	}
	addSelectFlags(cmd)
	return cmd
}
