// Command tallybridge reconciles per-locality election results onto
// statistical registry identifiers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/tallybridge/internal/adapters/driven/artifact"
	"github.com/custodia-labs/tallybridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tallybridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tallybridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/tallybridge/internal/connectors/crosswalk"
	"github.com/custodia-labs/tallybridge/internal/connectors/filesystem"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/core/services"
	"github.com/custodia-labs/tallybridge/internal/extractors/jsonpath"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}

// bootstrap wires the adapters for configDir into the services.
func bootstrap(configDir string) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	var cache driven.CrosswalkSource
	if settings.Crosswalk.CachePath != "" {
		cache = crosswalk.NewCacheLoader(settings.Crosswalk)
	}

	corpus := filesystem.New(settings.CorpusDir, settings.CorpusExtension,
		filesystem.WithExclude(settings.OutputPath))

	var (
		runStore driven.RunStore
		store    *sqlite.Store
	)
	if settings.HistoryEnabled {
		store, err = sqlite.NewStore(filepath.Join(filepath.Dir(settingsService.Path()), "data"))
		if err != nil {
			// History is optional; the pipeline still runs without it.
			logger.Warn("Run history unavailable: %v", err)
		} else {
			runStore = store.RunStore()
		}
	}

	pipeline := services.NewPipelineService(
		*settings,
		crosswalk.NewLoader(settings.Crosswalk),
		cache,
		corpus,
		jsonpath.New(settings.Extract),
		artifact.NewWriter(settings.OutputPath),
		runStore,
	)

	release := func() {
		if err := corpus.Close(); err != nil {
			logger.Warn("Failed to close corpus watcher: %v", err)
		}
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close history database: %v", err)
			}
		}
	}

	return &cli.Services{
		Pipeline: pipeline,
		History:  services.NewHistoryService(runStore),
		Settings: settingsService,
		Watcher:  services.NewWatchService(pipeline, corpus),
	}, release, nil
}
