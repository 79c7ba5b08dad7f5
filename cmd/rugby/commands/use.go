package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rugby/internal/app"
)

func (c *CLI) newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Replace targets with cached binaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			xcargs, _ := cmd.Flags().GetStringArray("xcargs")
			keepSources, _ := cmd.Flags().GetBool("keep-sources")

			return c.app.Use(cmd.Context(), app.UseOptions{
				SelectOptions:    selectOptions(cmd),
				BuildOptions:     xcargs,
				KeepSourceGroups: keepSources,
			})
		},
	}
	addSelectFlags(cmd)
	cmd.Flags().Bool("keep-sources", false, "Keep the source groups of replaced targets in the project")
	return cmd
}
