package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Report whether two documents are quasi-equal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Compare(cmd.Context(), args[0], args[1], runOptions(cmd))
			return err
		},
	}
	cmd.Flags().BoolP("diff", "d", false, "Print a unified diff of the leaves when the documents differ")
	return cmd
}

func (c *CLI) newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print the leaves of a document in comparison order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Flatten(cmd.Context(), args[0], runOptions(cmd))
		},
	}
}

func (c *CLI) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Compare every pair listed in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Batch(cmd.Context(), args[0], runOptions(cmd))
			return err
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of pairs compared in parallel (default number of CPUs)")
	return cmd
}
