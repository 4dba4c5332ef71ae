package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// FilesOptions holds flags for the files command.
type FilesOptions struct {
	*RootOptions
	analysisFlags
}

// FilesResult is the JSON payload of the files command.
type FilesResult struct {
	Paths []string `json:"paths"`
}

func (r FilesResult) String() string {
	return strings.Join(r.Paths, "\n")
}

// NewFilesCommand creates the files command.
func NewFilesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List every resource path the trace touched",
		Long: `List the distinct file and directory paths accessed in the trace,
in first-seen order. Paths whose every access failed are included - the
trace still names them.

Examples:
  untangle files --trace build.strace
  untangle files --trace build.strace --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(opts, cmd)
		},
	}

	addAnalysisFlags(cmd, &opts.analysisFlags)
	return cmd
}

func runFiles(opts *FilesOptions, cmd *cobra.Command) error {
	res, err := runAnalysis(&opts.analysisFlags)
	if err != nil {
		return err
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}
	return formatter.Success(FilesResult{Paths: res.ExistingFiles()})
}
