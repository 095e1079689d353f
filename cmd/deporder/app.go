package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"deporder/internal/cache"
	"deporder/internal/config"
	"deporder/internal/engine"
	"deporder/internal/errors"
	"deporder/internal/parse"
	"deporder/internal/slogutil"
)

// app is everything a command needs, built from the config file and flags.
type app struct {
	cfg    *config.Config
	root   string
	logger *slog.Logger
	store  *cache.Store
	engine *engine.Engine

	closers []io.Closer
}

// loadConfig reads the configuration and applies the command line flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Wrap(errors.IOFailed, "get working directory", err)
	}
	cfg, err := config.Load(cwd, configPath)
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("object-literals") {
		cfg.ObjectLiterals = objectLiterals
	}
	if flags.Changed("tie-break") {
		cfg.TieBreak = tieBreak
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if flags.Changed("allow-errors") {
		cfg.AllowErrors = allowErrors
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", errors.Wrap(errors.ConfigInvalid, "invalid flags", err)
	}
	return cfg, cfg.Root(cwd), nil
}

// newLogger writes to stderr, and also to logging.file when configured. -v and --quiet
// win over logging.level.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verbosity > 0 || quiet {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	format := slogutil.Format(cfg.Logging.Format)
	logger := slogutil.New(os.Stderr, level, format)
	if cfg.Logging.File == "" {
		return logger, nil, nil
	}

	fileHandler, closer, err := slogutil.OpenFileHandler(cfg.Logging.File, slog.LevelDebug, format)
	if err != nil {
		return nil, nil, errors.Wrap(errors.IOFailed, "open log file", err).WithPath(cfg.Logging.File)
	}
	return slog.New(slogutil.NewTeeHandler(logger.Handler(), fileHandler)), closer, nil
}

// newApp builds the engine. A cache that cannot be opened is reported and disabled.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, root: root, logger: logger}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	if cfg.Source != "" {
		logger.Debug("Loaded config", "path", cfg.Source)
	}

	var c engine.Cache
	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.CachePath(root), logger)
		if err != nil {
			logger.Warn("Checksum cache disabled", "error", err)
		} else {
			a.store = store
			a.closers = append(a.closers, store)
			c = store
		}
	}

	a.engine = engine.New(engine.Options{
		Order:       cfg.OrderOptions(),
		Parse:       parse.Options{AttachComments: cfg.AttachComments},
		Jobs:        cfg.EffectiveJobs(),
		AllowErrors: cfg.AllowErrors,
	}, c, logger)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("Close failed", "error", err)
		}
	}
}

// openStore opens the checksum cache for the cache subcommands, which need it to exist.
func openStore(cmd *cobra.Command) (*cache.Store, error) {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := slogutil.New(os.Stderr, slogutil.LevelFromVerbosity(verbosity, quiet), slogutil.Format(cfg.Logging.Format))
	return cache.Open(cfg.CachePath(root), logger)
}
