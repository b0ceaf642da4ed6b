package cli

import (
	"bytes"
	"layercheck/internal/core/ports"
	"layercheck/internal/ui/report"

	"github.com/spf13/cobra"
)

func newGraphCommand(opts *globalOptions) *cobra.Command {
	var dotPath, edgesOut string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the import graph as DOT or as an edge file",
		Long: `graph extracts the import graph and writes it out. Without --dot or
--edges-out the edge list is written to stdout. Findings do not affect the
exit code.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setupRuntime(cmd, opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.app.CheckService().Check(cmd.Context(), ports.CheckRequest{})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if dotPath != "" {
				if err := report.Render(&buf, report.FormatDOT, res.Report, report.Options{Graph: res.Graph}); err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), dotPath, buf.Bytes()); err != nil {
					return err
				}
			}
			if edgesOut != "" || dotPath == "" {
				buf.Reset()
				if err := report.RenderEdges(&buf, res.Graph); err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), edgesOut, buf.Bytes()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dotPath, "dot", "", "write a Graphviz DOT rendering to this file")
	cmd.Flags().StringVar(&edgesOut, "edges-out", "", "write the edge list to this file")
	_ = cmd.MarkFlagFilename("dot", "dot", "gv")
	_ = cmd.MarkFlagFilename("edges-out", "tsv")
	return cmd
}
