// Package commands implements the CLI commands for rugby.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rugby/internal/app"
	"go.trai.ch/rugby/internal/build"
	"go.trai.ch/rugby/internal/core/ports"
)

// CLI represents the command line interface for rugby.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Use(ctx context.Context, opts app.UseOptions) error
	Hash(ctx context.Context, opts app.HashOptions) error
	Rollback(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rugby",
		Short:         "Use prebuilt binaries instead of building targets from source",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Declared before the default flags so that -v stays with verbose.
	rootCmd.PersistentFlags().Bool("json", false, "Print logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if json, _ := cmd.Flags().GetBool("json"); json {
			log.SetJSON(true)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetVerbose(true)
		}
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newUseCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newRollbackCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addSelectFlags registers the flags shared by commands that pick targets.
func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("targets", "t", "", "Regular expression selecting targets by name")
	cmd.Flags().StringP("except", "e", "", "Regular expression excluding targets by name")
	cmd.Flags().StringArray("xcargs", nil, "Build options binaries were built with")
	cmd.Flags().StringP("project", "p", "", "Path of the root project file")
}

func selectOptions(cmd *cobra.Command) app.SelectOptions {
	include, _ := cmd.Flags().GetString("targets")
	exclude, _ := cmd.Flags().GetString("except")
	project, _ := cmd.Flags().GetString("project")
	return app.SelectOptions{
		Project: project,
		Include: include,
		Exclude: exclude,
	}
}
