package main

import (
	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "Show the member dependencies of every declaration in a file",
	Long: `Show, for each class, interface, type literal (and object literal with
--object-literals) in a file, which members each member reads through "this"
after transitive closure, and the member order before and after reordering.

The file is not modified.

Examples:
  deporder deps src/model.ts
  deporder deps src/model.ts --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Deps(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return Write(cmd.OutOrStdout(), res, format)
}
