// Package cli implements the iocctl commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pikciu/ioc"
	"github.com/pikciu/ioc/config"
	"github.com/pikciu/ioc/loader"
)

const (
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
	FlagPluginDir = "plugin-dir"
	FlagLogLevel  = "loglevel"
	FlagLogFormat = "logformat"
	FlagOutput    = "output"
)

// app is shared by the commands of one invocation.
type app struct {
	catalog *loader.Catalog
	cfg     *config.Config
	logger  *slog.Logger
}

// New returns the root command. Modules are looked up in catalog first and
// then in the plugin directory.
func New(catalog *loader.Catalog) *cobra.Command {
	a := &app{catalog: catalog}

	cmd := &cobra.Command{
		Use:   "iocctl [sub-command]",
		Short: "Inspect and validate ioc container modules",
		Long: `iocctl builds a container from modules known to the built-in catalog or
found as Go plugins in the plugin directory, and reports what it contains.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	flags := cmd.PersistentFlags()
	flags.String(FlagConfig, "", "path to a YAML configuration file")
	flags.StringSlice(FlagEnvFile, nil, "env files to load before reading IOC_* variables")
	flags.String(FlagPluginDir, "", "directory holding plugin modules (overrides configuration)")
	flags.String(FlagLogLevel, "", "set the log level (debug, info, warn, error)")
	flags.String(FlagLogFormat, "", "set the log format (text, json)")

	cmd.AddCommand(
		newModulesCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, err := flags.GetString(FlagConfig)
	if err != nil {
		return err
	}
	envFiles, err := flags.GetStringSlice(FlagEnvFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		FlagPluginDir: &cfg.PluginDir,
		FlagLogLevel:  &cfg.Log.Level,
		FlagLogFormat: &cfg.Log.Format,
	}
	for name, target := range overrides {
		if err := override(flags, name, target); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

func override(flags *pflag.FlagSet, name string, target *string) error {
	if !flags.Changed(name) {
		return nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

// build installs the configured modules followed by extra into a new
// container.
func (a *app) build(cmd *cobra.Command, extra []string) (*ioc.Container, error) {
	opts := append(
		a.cfg.ContainerOptions(),
		ioc.WithLogger(a.logger),
		ioc.WithModuleLoader(a.cfg.ModuleLoader(a.catalog)),
	)
	c := ioc.New(opts...)

	for _, id := range append(append([]string(nil), a.cfg.Modules...), extra...) {
		if err := c.RegisterFromModule(cmd.Context(), id); err != nil {
			return nil, err
		}
	}
	return c, nil
}
