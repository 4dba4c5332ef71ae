package cli

import (
	"github.com/spf13/cobra"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	analysisFlags
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a trace and report processes, edges and schedule",
		Long: `Analyze an strace -f log and report the reconstructed ordering.

The report contains:
- Per-process operation logs in trace order
- Dependency edges between processes (must-happen-before)
- The schedule: batches of processes safe to replay in parallel
- Every resource path the trace touched

Examples:
  untangle analyze --trace build.strace
  untangle analyze --trace build.strace --strict --format json
  untangle analyze --trace build.strace --profile ci.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.analysisFlags)
	return cmd
}

func runAnalyze(opts *AnalyzeOptions, cmd *cobra.Command) error {
	res, err := runAnalysis(&opts.analysisFlags)
	if err != nil {
		return err
	}

	report, err := BuildReport(res)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to build report", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.Success(report)
}
