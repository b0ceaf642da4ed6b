package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTraceCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <from> <to>",
		Short: "Print the shortest import chain between two modules",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setupRuntime(cmd, opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			chain, err := rt.app.CheckService().TraceChain(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(chain, " -> "))
			return nil
		},
	}
}
