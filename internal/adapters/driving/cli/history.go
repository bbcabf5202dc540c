package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded run and its issues",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tEMITTED\tUNMAPPED\tFAILED\tOFFICE A\tOFFICE B")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.ID, run.StartedAt.Local().Format(time.DateTime), run.Status,
			run.Emitted, run.Unmapped, run.Failed, run.TotalOfficeA, run.TotalOfficeB)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	run, issues, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	printRun(out, run)

	if len(issues) == 0 {
		fmt.Fprintln(out, "\nNo issues recorded.")
		return nil
	}

	fmt.Fprintf(out, "\nIssues (%d):\n", len(issues))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", issue.Kind, issue.ExternalID, issue.Detail)
	}
	return w.Flush()
}

func printRun(w io.Writer, run *domain.RunRecord) {
	fmt.Fprintf(w, "Run:         %s\n", run.ID)
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
	if d := run.Duration(); d > 0 {
		fmt.Fprintf(w, "Duration:    %s\n", d.Round(time.Millisecond))
	}
	if run.Error != "" {
		fmt.Fprintf(w, "Error:       %s\n", run.Error)
	}
	fmt.Fprintf(w, "Scanned:     %d\n", run.Scanned)
	fmt.Fprintf(w, "Emitted:     %d\n", run.Emitted)
	fmt.Fprintf(w, "Unmapped:    %d\n", run.Unmapped)
	fmt.Fprintf(w, "Failed:      %d\n", run.Failed)
	fmt.Fprintf(w, "Duplicates:  %d\n", run.Duplicates)
	fmt.Fprintf(w, "Collisions:  %d\n", run.Collisions)
	fmt.Fprintf(w, "Office A:    %d\n", run.TotalOfficeA)
	fmt.Fprintf(w, "Office B:    %d\n", run.TotalOfficeB)
	if run.OutputPath != "" {
		fmt.Fprintf(w, "Artifact:    %s\n", run.OutputPath)
	}
}
