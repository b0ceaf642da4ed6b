package cli

import (
	"fmt"
	"layercheck/internal/core/errors"
	"layercheck/internal/data/history"
	"layercheck/internal/ui/report"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var (
		since, window string
		asJSON        bool
		output        string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the trend of recorded check snapshots",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sinceTime, err := parseSince(since)
			if err != nil {
				return usageError(err)
			}
			windowDur, err := parseWindow(window)
			if err != nil {
				return usageError(err)
			}

			rt, err := setupRuntime(cmd, opts, runtimeOptions{history: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			trend, err := buildTrend(rt, sinceTime, windowDur)
			if errors.IsCode(err, errors.CodeNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "History: no snapshots matched the requested time window.")
				return nil
			}
			if err != nil {
				return err
			}

			var data []byte
			if asJSON {
				data, err = report.RenderTrendJSON(trend)
			} else {
				data, err = report.RenderTrendTSV(trend)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only include snapshots at or after this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&window, "window", "24h", "moving-average window")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the trend report as JSON instead of TSV")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the trend report to this file")
	return cmd
}

func buildTrend(rt *runtime, since time.Time, window time.Duration) (history.TrendReport, error) {
	return rt.app.Trend(since, window)
}

// loadTrend is buildTrend for views that degrade gracefully without history.
func loadTrend(rt *runtime, since time.Time, window time.Duration) *history.TrendReport {
	if rt.app.HistoryStore() == nil {
		return nil
	}
	trend, err := buildTrend(rt, since, window)
	if err != nil {
		slog.Debug("trend unavailable", "error", err)
		return nil
	}
	return &trend
}
