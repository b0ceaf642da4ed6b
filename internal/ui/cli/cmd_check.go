package cli

import (
	"bytes"
	coreapp "layercheck/internal/core/app"
	"layercheck/internal/core/ports"
	"layercheck/internal/ui/report"
	"layercheck/internal/ui/tui"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

type checkOptions struct {
	format  string
	output  string
	history bool
	ui      bool
	noTiers bool
}

func addCheckFlags(cmd *cobra.Command, o *checkOptions) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "report format: text, json, markdown, sarif, tsv or dot (default output.format)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&o.history, "history", false, "record a history snapshot of this run")
	cmd.Flags().BoolVar(&o.ui, "ui", false, "browse the findings in a terminal UI")
	cmd.Flags().BoolVar(&o.noTiers, "no-tiers", false, "omit the tier distribution from text reports")
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report layering violations and cycles (exit 1 when any are found)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts, o)
		},
	}
	addCheckFlags(cmd, o)
	return cmd
}

func runCheck(cmd *cobra.Command, opts *globalOptions, o *checkOptions) error {
	rt, err := setupRuntime(cmd, opts, runtimeOptions{uiMode: o.ui, history: o.history})
	if err != nil {
		return err
	}
	defer rt.Close()

	out, err := rt.app.Run(cmd.Context(), ports.CheckRequest{RecordHistory: rt.cfg.DB.Enabled})
	if err != nil {
		return err
	}

	if o.ui {
		trend := loadTrend(rt, time.Time{}, 24*time.Hour)
		if err := tui.Run(cmd.Context(), tui.Update{Result: out.Analysis, At: time.Now()}, trend, nil); err != nil {
			return err
		}
	} else if err := writeReports(cmd, rt, out, o); err != nil {
		return err
	}

	if !out.Result.Report.IsClean() {
		return errFindings
	}
	return nil
}

func writeReports(cmd *cobra.Command, rt *runtime, out coreapp.Outcome, o *checkOptions) error {
	format := o.format
	if format == "" {
		format = rt.cfg.Output.Format
	}
	outputPath := rt.paths.OutputPath
	if o.output != "" {
		outputPath = o.output
	}

	var buf bytes.Buffer
	err := report.Render(&buf, format, out.Result.Report, report.Options{
		Color:       outputPath == "" && rt.cfg.Output.ColorEnabled(),
		ShowTiers:   !o.noTiers,
		ProjectName: projectName(rt),
		GeneratedAt: time.Now().UTC(),
		Graph:       out.Result.Graph,
	})
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), outputPath, buf.Bytes()); err != nil {
		return err
	}

	if rt.paths.DotPath != "" {
		buf.Reset()
		if err := report.Render(&buf, report.FormatDOT, out.Result.Report, report.Options{Graph: out.Result.Graph}); err != nil {
			return err
		}
		if err := writeOutput(cmd.OutOrStdout(), rt.paths.DotPath, buf.Bytes()); err != nil {
			return err
		}
	}
	slog.Debug("report written", "format", format, "strategy", out.Result.Strategy)
	return nil
}

func projectName(rt *runtime) string {
	if rt.app.Namespace != "" {
		return rt.app.Namespace
	}
	return filepath.Base(rt.paths.ProjectRoot)
}
