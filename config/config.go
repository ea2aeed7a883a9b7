// Package config loads application-level container settings from a YAML
// file, optional .env files and IOC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pikciu/ioc"
	"github.com/pikciu/ioc/loader"
)

const EnvPrefix = "IOC_"

type Config struct {
	// AllowOverride lets a later registration replace an earlier one for the
	// same contract instead of failing.
	AllowOverride bool `yaml:"allowOverride"`
	// SealOnResolve rejects registrations after the first resolution.
	SealOnResolve bool `yaml:"sealOnResolve"`
	// Modules are installed in order when the application starts.
	Modules []string `yaml:"modules"`
	// PluginDir holds modules built with -buildmode=plugin.
	PluginDir string    `yaml:"pluginDir"`
	Log       LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from, in increasing priority, the defaults, the YAML
// file at path (skipped when path is empty) and the environment. The env
// files are loaded into the environment first; missing env files are not an
// error and variables already set win over them.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("ALLOW_OVERRIDE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALLOW_OVERRIDE: %w", EnvPrefix, err)
		}
		c.AllowOverride = b
	}
	if v, ok := lookup("SEAL_ON_RESOLVE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEAL_ON_RESOLVE: %w", EnvPrefix, err)
		}
		c.SealOnResolve = b
	}
	if v, ok := lookup("MODULES"); ok {
		c.Modules = splitList(v)
	}
	if v, ok := lookup("PLUGIN_DIR"); ok {
		c.PluginDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}

	seen := make(map[string]bool, len(c.Modules))
	for _, id := range c.Modules {
		if seen[id] {
			errs = append(errs, fmt.Errorf("module %q listed more than once", id))
		}
		seen[id] = true
	}

	return errors.Join(errs...)
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", l.Level)
	}
	return level, nil
}

// NewLogger returns a logger writing to w with the configured level and
// format. Call it on a validated Config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.Log.level()
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) ContainerOptions() []ioc.Option {
	var opts []ioc.Option
	if c.AllowOverride {
		opts = append(opts, ioc.WithOverride())
	}
	if c.SealOnResolve {
		opts = append(opts, ioc.WithSealOnResolve())
	}
	return opts
}

// ModuleLoader chains the given loaders with the plugin directory, if one is
// configured. Earlier loaders win.
func (c *Config) ModuleLoader(loaders ...loader.Loader) loader.Loader {
	if c.PluginDir != "" {
		loaders = append(loaders, loader.NewPluginLoader(c.PluginDir))
	}
	return loader.First(loaders...)
}
