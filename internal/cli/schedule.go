package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	analysisFlags
}

// ScheduleResult is the JSON payload of the schedule command.
type ScheduleResult struct {
	Batches [][]int `json:"batches"`
}

func (r ScheduleResult) String() string {
	var b strings.Builder
	for i, batch := range r.Batches {
		fmt.Fprintf(&b, "batch %d: %v\n", i, batch)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the parallel replay schedule for a trace",
		Long: `Drain the dependency graph and print the schedule.

Each batch lists processes with no remaining ordering dependency; all
processes within one batch may be replayed in parallel. Batches must be
replayed in order.

Examples:
  untangle schedule --trace build.strace
  untangle schedule --trace build.strace --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(opts, cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.analysisFlags)
	return cmd
}

func runSchedule(opts *ScheduleOptions, cmd *cobra.Command) error {
	res, err := runAnalysis(&opts.analysisFlags)
	if err != nil {
		return err
	}

	batches, err := res.NewScheduler().Drain()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to drain schedule", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.Success(ScheduleResult{Batches: batches})
}
