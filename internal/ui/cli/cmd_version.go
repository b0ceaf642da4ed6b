package cli

import (
	"fmt"
	"layercheck/internal/shared/version"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the layercheck version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "layercheck %s\n", version.Version)
			return nil
		},
	}
}
