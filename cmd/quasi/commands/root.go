// Package commands implements the CLI commands for quasi.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/quasi/internal/app"
	"go.trai.ch/quasi/internal/build"
)

// CLI represents the command line interface for quasi.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "quasi",
		Short:         "Compare documents by structure and content, ignoring their types",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the settings file (default quasi.yaml)")
	flags.Int("max-depth", 0, "Maximum nesting depth of composites, 0 for unlimited")
	flags.Int("max-leaves", 0, "Maximum number of leaves per document, 0 for unlimited")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newCompareCmd())
	rootCmd.AddCommand(c.newFlattenCmd())
	rootCmd.AddCommand(c.newBatchCmd())
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

// runOptions collects the flags the user actually set, so that unset flags
// keep the values from the settings file.
func runOptions(cmd *cobra.Command) app.RunOptions {
	flags := cmd.Flags()
	opts := app.RunOptions{}
	opts.ConfigPath, _ = flags.GetString("config")

	if flags.Changed("max-depth") {
		v, _ := flags.GetInt("max-depth")
		opts.MaxDepth = &v
	}
	if flags.Changed("max-leaves") {
		v, _ := flags.GetInt("max-leaves")
		opts.MaxLeaves = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		opts.LogLevel = &v
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		v, _ := flags.GetInt("jobs")
		opts.Parallelism = &v
	}
	if flags.Lookup("diff") != nil {
		opts.Diff, _ = flags.GetBool("diff")
	}
	return opts
}

// SetOutput sets the destination for usage, help and version text. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}
