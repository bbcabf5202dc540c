// Package cli implements the tallybridge command line.
//
// Commands are package-level cobra commands registered against rootCmd in
// init. Services are injected through package variables, either directly
// with SetServices or lazily through a Bootstrap hook that runs once the
// persistent flags are parsed.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports used by the commands.
type Services struct {
	Pipeline driving.Pipeline
	History  driving.RunHistory
	Settings driving.SettingsService
	Watcher  driving.Watcher
}

// Bootstrap builds the services for a config directory.
// The returned cleanup func releases any resources the services hold.
type Bootstrap func(configDir string) (*Services, func(), error)

var (
	pipelineService driving.Pipeline
	historyService  driving.RunHistory
	settingsService driving.SettingsService
	watchService    driving.Watcher

	bootstrap Bootstrap
	cleanup   func()
)

// Persistent flags.
var (
	verbose   bool
	quiet     bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "tallybridge",
	Short: "Reconcile per-locality election results onto registry identifiers",
	Long: `tallybridge joins locally stored per-locality election result documents to
a remote identifier crosswalk and writes a single summary keyed by the
statistical registry identifier.

Each run refetches the crosswalk, rescans the corpus and fully regenerates
the summary. Progress and verification totals go to stderr.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"Configuration directory (default: ~/.tallybridge)")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	pipelineService = s.Pipeline
	historyService = s.History
	settingsService = s.Settings
	watchService = s.Watcher
}

// SetBootstrap registers the hook that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Resources acquired by the bootstrap hook
// are released before it returns.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	if bootstrap == nil || settingsService != nil {
		return nil
	}
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	services, release, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = release
	return nil
}

// errNotConfigured reports a command invoked without its service.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
