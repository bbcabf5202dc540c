package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

// Flags for run.
var (
	runDryRun  bool
	runStrict  bool
	runOffline bool
	runWatch   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the summary artifact",
	Long: `Fetch the crosswalk, scan the result corpus, extract the target candidates'
votes from every mapped document and write the summary artifact.

Documents missing from the crosswalk are counted as unmapped. Documents that
cannot be parsed are skipped and counted. Any other failure aborts the run
and leaves the previous artifact untouched.

Exit codes: 0 ok, 1 other, 2 transport, 3 crosswalk format, 4 corpus,
5 write, 6 verification.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute and report without writing the artifact")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Fail when totals differ from the configured expected totals")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "Load the crosswalk from the local cache")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Rerun whenever the corpus changes")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	opts := driving.RunOptions{
		DryRun:  runDryRun,
		Strict:  runStrict,
		Offline: runOffline,
	}

	if runWatch {
		return watchRun(cmd, opts)
	}

	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	report, err := pipelineService.Run(cmd.Context(), opts)
	printReport(cmd.ErrOrStderr(), report)
	return err
}

func watchRun(cmd *cobra.Command, opts driving.RunOptions) error {
	if watchService == nil {
		return errNotConfigured("watch")
	}

	cmd.PrintErrln("Watching corpus for changes. Press Ctrl+C to stop.")
	err := watchService.Watch(cmd.Context(), opts, func(report *domain.RunReport, err error) {
		printReport(cmd.ErrOrStderr(), report)
		if err != nil {
			cmd.PrintErrf("Run failed: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
