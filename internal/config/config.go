package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"deporder/internal/errors"
	"deporder/internal/order"
	"deporder/internal/paths"
	"deporder/internal/slogutil"
)

// CurrentVersion is the only schema version this build reads.
const CurrentVersion = 1

// EnvPrefix prefixes every environment override, e.g. DEPORDER_CACHE_ENABLED.
const EnvPrefix = "DEPORDER"

// FileNames are searched, in order, in the working directory and each parent.
var FileNames = []string{".deporder.json", ".deporder.yaml", ".deporder.yml", ".deporder.toml"}

// Config represents the complete deporder configuration
type Config struct {
	Version        int      `json:"version" yaml:"version" toml:"version" mapstructure:"version"`
	Include        []string `json:"include" yaml:"include" toml:"include" mapstructure:"include"`
	Ignore         []string `json:"ignore" yaml:"ignore" toml:"ignore" mapstructure:"ignore"`
	ObjectLiterals bool     `json:"objectLiterals" yaml:"objectLiterals" toml:"objectLiterals" mapstructure:"objectLiterals"`
	TieBreak       string   `json:"tieBreak" yaml:"tieBreak" toml:"tieBreak" mapstructure:"tieBreak"`
	AttachComments bool     `json:"attachComments" yaml:"attachComments" toml:"attachComments" mapstructure:"attachComments"`
	Jobs           int      `json:"jobs" yaml:"jobs" toml:"jobs" mapstructure:"jobs"`
	AllowErrors    bool     `json:"allowErrors" yaml:"allowErrors" toml:"allowErrors" mapstructure:"allowErrors"`

	Cache   CacheConfig   `json:"cache" yaml:"cache" toml:"cache" mapstructure:"cache"`
	Watch   WatchConfig   `json:"watch" yaml:"watch" toml:"watch" mapstructure:"watch"`
	Logging LoggingConfig `json:"logging" yaml:"logging" toml:"logging" mapstructure:"logging"`

	// Source is the file the configuration was read from; empty for defaults.
	Source string `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// CacheConfig contains checksum cache configuration
type CacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" toml:"path" mapstructure:"path"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	DebounceMs int `json:"debounceMs" yaml:"debounceMs" toml:"debounceMs" mapstructure:"debounceMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Include: []string{"**/*.ts", "**/*.tsx", "**/*.mts", "**/*.cts", "**/*.js", "**/*.jsx", "**/*.mjs", "**/*.cjs"},
		Ignore: []string{
			"node_modules/**",
			"dist/**",
			"build/**",
			".git/**",
		},
		ObjectLiterals: false,
		TieBreak:       string(order.TieBreakSource),
		AttachComments: true,
		Jobs:           0,
		AllowErrors:    false,
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(".deporder", "cache.db"),
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: string(slogutil.FormatText),
		},
	}
}

// setDefaults registers every key so that environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("include", d.Include)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("objectLiterals", d.ObjectLiterals)
	v.SetDefault("tieBreak", d.TieBreak)
	v.SetDefault("attachComments", d.AttachComments)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("allowErrors", d.AllowErrors)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("watch.debounceMs", d.Watch.DebounceMs)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}

// Load reads the configuration. An explicit path wins; otherwise the first of FileNames
// found in dir or its parents is used, and defaults apply when there is none.
// DEPORDER_* environment variables override file values.
func Load(dir, explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := explicit
	if source == "" {
		source = paths.FindUp(dir, FileNames...)
	}
	if source != "" {
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid, "read config", err).WithPath(source)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "decode config", err).WithPath(source)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "invalid config", err).WithPath(source)
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if _, err := order.ParseTieBreak(c.TieBreak); err != nil {
		return &ConfigError{Field: "tieBreak", Message: err.Error()}
	}
	if c.Jobs < 0 {
		return &ConfigError{Field: "jobs", Message: "must not be negative"}
	}
	if c.Watch.DebounceMs < 0 {
		return &ConfigError{Field: "watch.debounceMs", Message: "must not be negative"}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	switch slogutil.Format(strings.ToLower(c.Logging.Format)) {
	case "", slogutil.FormatText, slogutil.FormatJSON:
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return &ConfigError{Field: "cache.path", Message: "required when the cache is enabled"}
	}
	return nil
}

// OrderOptions returns the options handed to the reorderer.
func (c *Config) OrderOptions() order.Options {
	tb, err := order.ParseTieBreak(c.TieBreak)
	if err != nil {
		tb = order.TieBreakSource
	}
	return order.Options{TieBreak: tb, ObjectLiterals: c.ObjectLiterals}
}

// EffectiveJobs returns the worker count, defaulting to GOMAXPROCS.
func (c *Config) EffectiveJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// CachePath resolves the cache location against root when it is relative.
func (c *Config) CachePath(root string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(root, c.Cache.Path)
}

// Root is the directory relative paths in the configuration refer to: the directory
// holding the config file, or fallback when defaults are in use.
func (c *Config) Root(fallback string) string {
	if c.Source == "" {
		return fallback
	}
	return filepath.Dir(c.Source)
}

const tomlHeader = `# deporder configuration.
# Environment variables override any key: DEPORDER_TIEBREAK=name, DEPORDER_CACHE_ENABLED=false.

`

// EncodeTOML renders the configuration as a commented TOML document.
func (c *Config) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(tomlHeader)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTOML writes the configuration to path, refusing to overwrite unless force is set.
func (c *Config) WriteTOML(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ConfigInvalid, "config file already exists").WithPath(path)
		}
	}
	data, err := c.EncodeTOML()
	if err != nil {
		return errors.Wrap(errors.InternalError, "encode config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.IOFailed, "write config", err).WithPath(path)
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
