// Package cli implements the layercheck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	verbose    bool
	root       string
	edges      string
}

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitClean
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, "error:", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, "error:", err)
	return ExitFindings
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	checkOpts := &checkOptions{}

	root := &cobra.Command{
		Use:   "layercheck",
		Short: "Check a dependency graph against declared architectural tiers",
		Long: `layercheck classifies the modules of a project into ordered tiers, then
reports upward dependencies, encapsulation breaches and circular
dependencies between modules.

Running layercheck without a subcommand is the same as "layercheck check".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts, checkOpts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./layercheck.toml or ./data/config/layercheck.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.root, "root", "", "project root, overrides project.root")
	root.PersistentFlags().StringVar(&opts.edges, "edges", "", "read the import graph from an edge file instead of extracting it")
	addCheckFlags(root, checkOpts)

	root.AddCommand(
		newCheckCommand(opts),
		newGraphCommand(opts),
		newClassifyCommand(opts),
		newTraceCommand(opts),
		newHistoryCommand(opts),
		newWatchCommand(opts),
		newVersionCommand(),
	)
	return root
}

// exactArgs reports argument count mismatches as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
