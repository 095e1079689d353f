package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"deporder/internal/config"
)

var (
	configInitForce bool
	configInitPath  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deporder configuration",
	Long:  "Create or inspect the .deporder.{json,yaml,toml} configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .deporder.toml",
	Long: `Write the default configuration to .deporder.toml in the current directory.

Examples:
  deporder config init
  deporder config init --force
  deporder config init --path tools/.deporder.toml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after applying the config file, DEPORDER_*
environment variables and flags.

Examples:
  deporder config show
  deporder config show --format json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "File to write (default: ./.deporder.toml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path = filepath.Join(cwd, ".deporder.toml")
	}
	if err := config.DefaultConfig().WriteTOML(path, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleOK.Render("Wrote"), path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if format == FormatHuman {
		source := cfg.Source
		if source == "" {
			source = "defaults"
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("# source: "+source))
	}
	return Write(cmd.OutOrStdout(), cfg, format)
}
