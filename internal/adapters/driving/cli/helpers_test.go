package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

// mockPipeline records the options it was called with.
type mockPipeline struct {
	report  *domain.RunReport
	entries []driving.ScanEntry
	err     error

	runCalls  int
	scanCalls int
	lastOpts  driving.RunOptions
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.runCalls++
	m.lastOpts = opts
	return m.report, m.err
}

func (m *mockPipeline) Scan(_ context.Context, opts driving.RunOptions) ([]driving.ScanEntry, error) {
	m.scanCalls++
	m.lastOpts = opts
	return m.entries, m.err
}

type mockHistory struct {
	runs   []domain.RunRecord
	issues []domain.Issue
	err    error

	lastLimit int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

func (m *mockHistory) Get(_ context.Context, runID string) (*domain.RunRecord, []domain.Issue, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == runID {
			return &m.runs[i], m.issues, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

type mockSettings struct {
	settings domain.PipelineSettings
	values   map[string]string
	setErr   error
}

func (m *mockSettings) Get() (*domain.PipelineSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"corpus.dir", "crosswalk.url", "output.path"}
}

func (m *mockSettings) Path() string {
	return "/tmp/tallybridge/config.toml"
}

// mockWatcher delivers the configured outcomes, then returns err.
type mockWatcher struct {
	reports  []*domain.RunReport
	err      error
	lastOpts driving.RunOptions
	stopped  bool
}

func (m *mockWatcher) Watch(_ context.Context, opts driving.RunOptions, handle driving.RunHandler) error {
	m.lastOpts = opts
	for _, r := range m.reports {
		handle(r, nil)
	}
	return m.err
}

func (m *mockWatcher) Stop() {
	m.stopped = true
}

type testServices struct {
	pipeline *mockPipeline
	history  *mockHistory
	settings *mockSettings
	watcher  *mockWatcher
}

func sampleReport() *domain.RunReport {
	return &domain.RunReport{
		RunID:            "run-1",
		Scanned:          3,
		Emitted:          2,
		Unmapped:         1,
		CrosswalkEntries: 5,
		TotalOfficeA:     700,
		TotalOfficeB:     1300,
		Verification:     domain.Verification{Consistent: true},
		Issues: []domain.Issue{
			{Kind: domain.IssueUnmapped, ExternalID: "99999"},
		},
		OutputPath: "data/results/summary.json",
	}
}

func sampleRuns() []domain.RunRecord {
	started := time.Date(2024, 10, 7, 12, 0, 0, 0, time.UTC)
	return []domain.RunRecord{
		{
			ID:           "run-2",
			StartedAt:    started.Add(time.Hour),
			EndedAt:      started.Add(time.Hour + 2*time.Second),
			Status:       domain.RunStatusFailed,
			Error:        "transport error: crosswalk unreachable",
			TotalOfficeA: 0,
		},
		{
			ID:           "run-1",
			StartedAt:    started,
			EndedAt:      started.Add(time.Second),
			Status:       domain.RunStatusSucceeded,
			Scanned:      3,
			Emitted:      2,
			Unmapped:     1,
			TotalOfficeA: 700,
			TotalOfficeB: 1300,
			OutputPath:   "data/results/summary.json",
		},
	}
}

// setupTestServices installs mock services and returns them with a restore func.
func setupTestServices() (*testServices, func()) {
	oldPipeline, oldHistory := pipelineService, historyService
	oldSettings, oldWatcher := settingsService, watchService
	oldBootstrap := bootstrap

	settings := domain.DefaultPipelineSettings()
	settings.Crosswalk.URL = "https://example.com/municipios.json"

	ts := &testServices{
		pipeline: &mockPipeline{report: sampleReport()},
		history:  &mockHistory{runs: sampleRuns()},
		settings: &mockSettings{settings: settings},
		watcher:  &mockWatcher{},
	}
	SetServices(&Services{
		Pipeline: ts.pipeline,
		History:  ts.history,
		Settings: ts.settings,
		Watcher:  ts.watcher,
	})
	bootstrap = nil

	return ts, func() {
		pipelineService, historyService = oldPipeline, oldHistory
		settingsService, watchService = oldSettings, oldWatcher
		bootstrap = oldBootstrap
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags() {
	verbose, quiet, configDir = false, false, ""
	runDryRun, runStrict, runOffline, runWatch = false, false, false, false
	scanOffline, scanUnmapped = false, false
	historyLimit = 20
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func requireLine(t *testing.T, out, prefix string) string {
	t.Helper()
	for _, l := range lines(out) {
		if strings.HasPrefix(strings.TrimSpace(l), prefix) {
			return l
		}
	}
	require.Failf(t, "line not found", "no line starting with %q in:\n%s", prefix, out)
	return ""
}
