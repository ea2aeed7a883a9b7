package cli

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pikciu/ioc/loader"
)

const (
	sourceCatalog = "catalog"
	sourcePlugin  = "plugin"
)

func newModulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "modules",
		Aliases: []string{"mods"},
		Short:   "List the modules iocctl can install",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listModules(cmd)
		},
		DisableAutoGenTag: true,
	}
}

func (a *app) listModules(cmd *cobra.Command) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Module", "Source", "Configured"})

	seen := map[string]bool{}
	for _, id := range a.catalog.IDs() {
		seen[id] = true
		t.AppendRow(table.Row{id, sourceCatalog, a.configured(id)})
	}

	if a.cfg.PluginDir != "" {
		ids, err := loader.NewPluginLoader(a.cfg.PluginDir).Discover(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			if seen[id] {
				a.logger.Warn("plugin shadowed by catalog module", "module", id)
				continue
			}
			t.AppendRow(table.Row{id, sourcePlugin, a.configured(id)})
		}
	}

	t.Render()
	return nil
}

func (a *app) configured(id string) string {
	if slices.Contains(a.cfg.Modules, id) {
		return "yes"
	}
	return "no"
}
