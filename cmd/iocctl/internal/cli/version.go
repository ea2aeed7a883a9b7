package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var BuildVersion = "n/a"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the iocctl version",
		Args:  cobra.NoArgs,
		// The root pre-run loads configuration, which version does not need.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, goVersion := BuildVersion, "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
				if version == "n/a" && info.Main.Version != "" {
					version = info.Main.Version
				}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "iocctl %s (%s)\n", version, goVersion)
			return err
		},
		DisableAutoGenTag: true,
	}
}
