package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Run 'tallybridge config keys' for the list of recognised keys.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Example: `  tallybridge config set crosswalk.url https://example.com/municipios.json
  tallybridge config set extract.workers 4
  tallybridge config set verify.office_a_total 1234567`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "[Crosswalk]")
	fmt.Fprintf(out, "  URL: %s\n", orNotSet(s.Crosswalk.URL))
	fmt.Fprintf(out, "  Fields: %s -> %s\n", s.Crosswalk.ExternalField, s.Crosswalk.CanonicalField)
	fmt.Fprintf(out, "  Timeout: %s\n", s.Crosswalk.Timeout)
	fmt.Fprintf(out, "  Retries: %d (%.2g/s)\n", s.Crosswalk.Retries, s.Crosswalk.RetryPerSecond)
	fmt.Fprintf(out, "  Cache: %s\n", orNotSet(s.Crosswalk.CachePath))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Corpus]")
	fmt.Fprintf(out, "  Directory: %s\n", s.CorpusDir)
	fmt.Fprintf(out, "  Extension: %s\n", s.CorpusExtension)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Extract]")
	fmt.Fprintf(out, "  Office A: candidate %s in %q\n", s.Extract.OfficeA.Candidate, s.Extract.OfficeA.List)
	fmt.Fprintf(out, "  Office B: candidate %s in %q\n", s.Extract.OfficeB.Candidate, s.Extract.OfficeB.List)
	fmt.Fprintf(out, "  Entry fields: number=%s votes=%s\n", s.Extract.NumberField, s.Extract.VotesField)
	fmt.Fprintf(out, "  Workers: %d\n", s.Extract.Workers)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Output]")
	fmt.Fprintf(out, "  Path: %s\n", s.OutputPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Verify]")
	fmt.Fprintf(out, "  Office A total: %s\n", orNotSetInt(s.Verify.OfficeATotal))
	fmt.Fprintf(out, "  Office B total: %s\n", orNotSetInt(s.Verify.OfficeBTotal))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[History]")
	fmt.Fprintf(out, "  Enabled: %t\n", s.HistoryEnabled)

	if err := s.Validate(); err != nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Status: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	for _, key := range settingsService.Keys() {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orNotSetInt(n int64) string {
	if n == 0 {
		return "(not set)"
	}
	return fmt.Sprintf("%d", n)
}
