package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"deporder/internal/engine"
	"deporder/internal/errors"
	"deporder/internal/version"
)

var (
	writeFlag      bool
	checkFlag      bool
	listDifferent  bool
	stdinFilepath  string
	objectLiterals bool
	tieBreak       string
	jobs           int
	noCache        bool
	allowErrors    bool
	outputFormat   string
	verbosity      int
	quiet          bool
	configPath     string
)

var rootCmd = &cobra.Command{
	Use:   "deporder [paths...]",
	Short: "Order class and interface members by their dependencies",
	Long: `deporder reorders the members of TypeScript and JavaScript declarations so that
every member comes after the members it reads through "this". Members that do not
depend on each other keep their source order; comments and anything that is not a
member stay where they are.

With no paths, or "-", the source is read from stdin.

Examples:
  deporder src/model.ts          # Print the reordered file
  deporder --write src           # Rewrite every file under src
  deporder --check .             # Exit 1 when a file is out of order
  deporder -l .                  # List files that would change
  cat a.ts | deporder --stdin-filepath a.ts`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("deporder version {{.Version}}\n")

	flags := rootCmd.Flags()
	flags.BoolVarP(&writeFlag, "write", "w", false, "Rewrite files in place")
	flags.BoolVarP(&checkFlag, "check", "c", false, "Report files that are not in dependency order")
	flags.BoolVarP(&listDifferent, "list-different", "l", false, "Print the paths of files that would change")
	flags.StringVar(&stdinFilepath, "stdin-filepath", "", "Path used to pick the grammar for stdin input")

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVar(&objectLiterals, "object-literals", false, "Also reorder object literal properties")
	pflags.StringVar(&tieBreak, "tie-break", "source", "Order of independent members: source or name")
	pflags.IntVarP(&jobs, "jobs", "j", 0, "Files processed in parallel (default: number of CPUs)")
	pflags.BoolVar(&noCache, "no-cache", false, "Do not read or update the checksum cache")
	pflags.BoolVar(&allowErrors, "allow-errors", false, "Reorder files even when they contain syntax errors")
	pflags.StringVar(&outputFormat, "format", string(FormatHuman), "Output format (human, json, yaml, toml)")
	pflags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pflags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all logs")
	pflags.StringVar(&configPath, "config", "", "Config file (default: search for .deporder.{json,yaml,toml})")
}

// resolveMode maps the mode flags to an engine mode.
func resolveMode(write, check, list bool) (engine.Mode, error) {
	n := 0
	for _, set := range []bool{write, check, list} {
		if set {
			n++
		}
	}
	switch {
	case n > 1:
		return 0, errors.New(errors.ConfigInvalid, "--write, --check and --list-different are mutually exclusive")
	case write:
		return engine.ModeWrite, nil
	case check:
		return engine.ModeCheck, nil
	case list:
		return engine.ModeList, nil
	}
	return engine.ModePrint, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	mode, err := resolveMode(writeFlag, checkFlag, listDifferent)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return runStdin(cmd, a, mode, format)
	}

	files, err := engine.Expand(args, a.cfg.Include, a.cfg.Ignore)
	if err != nil {
		return err
	}
	if mode == engine.ModePrint && len(files) != 1 {
		return errors.New(errors.ConfigInvalid,
			fmt.Sprintf("cannot print %d files; use --write, --check or --list-different", len(files)))
	}

	report, err := a.engine.Run(cmd.Context(), files, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch mode {
	case engine.ModePrint:
		f := report.Files[0]
		if f.Err != nil {
			return f.Err
		}
		if _, err := out.Write(f.Output); err != nil {
			return err
		}
	case engine.ModeList:
		if format == FormatHuman {
			for _, p := range report.ChangedPaths() {
				fmt.Fprintln(out, p)
			}
			break
		}
		if err := Write(out, report, format); err != nil {
			return err
		}
	default:
		if err := Write(out, report, format); err != nil {
			return err
		}
	}
	return report.Err()
}

// runStdin reorders standard input.
func runStdin(cmd *cobra.Command, a *app, mode engine.Mode, format OutputFormat) error {
	if mode == engine.ModeWrite {
		return errors.New(errors.ConfigInvalid, "--write needs file arguments")
	}
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Wrap(errors.IOFailed, "read stdin", err)
	}

	name := stdinFilepath
	res, err := a.engine.Source(cmd.Context(), name, src)
	if err != nil {
		return err
	}
	if name == "" {
		res.Path = "<stdin>"
	}

	out := cmd.OutOrStdout()
	switch mode {
	case engine.ModePrint:
		_, err = out.Write(res.Output)
		return err
	case engine.ModeList:
		if res.Changed {
			fmt.Fprintln(out, res.Path)
		}
	default:
		if err := Write(out, res, format); err != nil {
			return err
		}
	}
	if res.Changed {
		return errors.New(errors.NotOrdered, "input is not in dependency order").WithPath(res.Path)
	}
	return nil
}
