package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/untangle/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	analysisFlags
	Database string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	RunID     string `json:"run_id"`
	Database  string `json:"database"`
	Processes int    `json:"processes"`
	Edges     int    `json:"edges"`
	Paths     int    `json:"paths"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("run %s written to %s (%d processes, %d edges, %d paths)",
		r.RunID, r.Database, r.Processes, r.Edges, r.Paths)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Analyze a trace and persist the run to SQLite",
		Long: `Analyze an strace -f log and write the full result - processes,
operations, edges, schedule batches and paths - to a SQLite database
for downstream querying.

Examples:
  untangle export --trace build.strace --db runs.db
  untangle export --trace build.strace --db runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.analysisFlags)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	res, err := runAnalysis(&opts.analysisFlags)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runID, err := st.WriteRun(context.Background(), filepath.Base(opts.Trace), res)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write run", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.Success(ExportResult{
		RunID:     runID,
		Database:  opts.Database,
		Processes: res.Graph().NodeCount(),
		Edges:     res.Graph().EdgeCount(),
		Paths:     len(res.ExistingFiles()),
	})
}
