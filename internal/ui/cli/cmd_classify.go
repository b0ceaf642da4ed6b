package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <module>...",
		Short: "Show the tier each module path is assigned to",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setupRuntime(cmd, opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODULE\tTIER\tRULE\tPATTERN")
			for _, path := range args {
				a := rt.app.Classify(path)
				if !a.Classified {
					fmt.Fprintf(tw, "%s\t-\t-\t-\n", path)
					continue
				}
				name := a.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", path, a.Tier, name, a.Pattern)
			}
			return tw.Flush()
		},
	}
}
