package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

// Flags for scan.
var (
	scanOffline  bool
	scanUnmapped bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List corpus documents and their crosswalk mapping",
	Long: `Load the crosswalk and list every document in the corpus with the registry
identifier it maps to. Nothing is extracted or written.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanOffline, "offline", false, "Load the crosswalk from the local cache")
	scanCmd.Flags().BoolVar(&scanUnmapped, "unmapped", false, "Only list unmapped documents")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}

	entries, err := pipelineService.Scan(cmd.Context(), driving.RunOptions{Offline: scanOffline})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	mapped := 0
	for _, e := range entries {
		if e.Mapped {
			mapped++
			if !scanUnmapped {
				fmt.Fprintf(out, "%-12s %s\n", e.ExternalID, e.CanonicalID)
			}
			continue
		}
		fmt.Fprintf(out, "%-12s %s\n", e.ExternalID, "(unmapped)")
	}

	cmd.PrintErrf("%d documents, %d mapped, %d unmapped\n", len(entries), mapped, len(entries)-mapped)
	return nil
}
