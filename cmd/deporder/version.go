package main

import (
	"github.com/spf13/cobra"

	"deporder/internal/parse"
	"deporder/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseOutputFormat(outputFormat)
		if err != nil {
			return err
		}
		return Write(cmd.OutOrStdout(), version.Get(parse.IsAvailable()), format)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
