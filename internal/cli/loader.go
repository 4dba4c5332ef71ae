package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/untangle/internal/analyze"
	"github.com/roach88/untangle/internal/config"
)

// analysisFlags are the trace-input flags shared by every command that
// runs the analyzer.
type analysisFlags struct {
	Trace   string
	Profile string
	Strict  bool
}

// addAnalysisFlags registers the shared flags on a command.
func addAnalysisFlags(cmd *cobra.Command, f *analysisFlags) {
	cmd.Flags().StringVar(&f.Trace, "trace", "", "path to strace -f output (required)")
	_ = cmd.MarkFlagRequired("trace")
	cmd.Flags().StringVar(&f.Profile, "profile", "", "path to YAML analysis profile")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "fail on malformed trace lines")
}

// runAnalysis loads the profile, opens the trace and runs the analyzer.
// Command errors (bad paths) exit 2; analysis failures (parse errors,
// cycles) exit 1.
func runAnalysis(f *analysisFlags) (*analyze.Result, error) {
	profile := config.Default()
	if f.Profile != "" {
		var err error
		profile, err = config.Load(f.Profile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load profile", err)
		}
	}
	if f.Strict {
		profile.Strict = true
	}

	in, err := os.Open(f.Trace)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace", err)
	}
	defer in.Close()

	res, err := analyze.New(profile).Run(in)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "analysis failed", err)
	}
	return res, nil
}
