package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pikciu/ioc"
)

const (
	outputTable = "table"
	outputText  = "text"
	outputDOT   = "dot"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [module...]",
		Short: "Install modules into a container and print its registrations",
		Long: `Install the configured modules and the given ones, in that order, into a
new container and print every registration with its lifecycle and dependencies.
Nothing is constructed.`,
		Example: strings.TrimSpace(`
iocctl inspect storage services
iocctl inspect --plugin-dir ./modules billing -o dot | dot -Tsvg > graph.svg
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cmd.Flags().GetString(FlagOutput)
			if err != nil {
				return err
			}

			c, err := a.build(cmd, args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case outputTable:
				renderTable(cmd, c.Graph())
			case outputText:
				c.FprintGraph(w)
			case outputDOT:
				c.FprintGraphDOT(w)
			default:
				return fmt.Errorf("invalid output format %q, use table, text or dot", output)
			}
			return nil
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().StringP(FlagOutput, "o", outputTable, "output format (table, text, dot)")
	return cmd
}

func renderTable(cmd *cobra.Command, info ioc.GraphInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Contract", "Implementation", "Lifecycle", "Dependencies"})

	for _, reg := range info.Registrations {
		deps := make([]string, 0, len(reg.Dependencies))
		for _, d := range reg.Dependencies {
			deps = append(deps, ioc.ShortName(d))
		}
		lifecycle := reg.Lifecycle
		if reg.PreSupplied {
			lifecycle += " (value)"
		}
		t.AppendRow(
			table.Row{
				ioc.ShortName(reg.Contract),
				ioc.ShortName(reg.Implementation),
				lifecycle,
				strings.Join(deps, ", "),
			},
		)
	}

	t.AppendFooter(table.Row{"", "", "Total", len(info.Registrations)})
	t.Render()
}
