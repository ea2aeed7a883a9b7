package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [module...]",
		Short: "Check that every dependency is registered and none is circular",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.build(cmd, args)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d registrations\n", c.Size())
			return err
		},
		DisableAutoGenTag: true,
	}
}
