package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

func scanEntries() []driving.ScanEntry {
	return []driving.ScanEntry{
		{ExternalID: "00019", CanonicalID: "1100015", Mapped: true},
		{ExternalID: "00035", CanonicalID: "1100023", Mapped: true},
		{ExternalID: "99999"},
	}
}

func TestScanCmd_ListsEntries(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()
	ts.pipeline.entries = scanEntries()

	stdout, stderr, err := execute(t, "scan")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"00019        1100015",
		"00035        1100023",
		"99999        (unmapped)",
	}, lines(stdout))
	assert.Contains(t, stderr, "3 documents, 2 mapped, 1 unmapped")
	assert.Equal(t, 1, ts.pipeline.scanCalls)
}

func TestScanCmd_UnmappedOnly(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()
	ts.pipeline.entries = scanEntries()

	stdout, _, err := execute(t, "scan", "--unmapped")

	require.NoError(t, err)
	assert.Equal(t, []string{"99999        (unmapped)"}, lines(stdout))
}

func TestScanCmd_Offline(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()

	_, stderr, err := execute(t, "scan", "--offline")

	require.NoError(t, err)
	assert.True(t, ts.pipeline.lastOpts.Offline)
	assert.Contains(t, stderr, "0 documents, 0 mapped, 0 unmapped")
}

func TestScanCmd_Error(t *testing.T) {
	ts, restore := setupTestServices()
	defer restore()
	ts.pipeline.err = fmt.Errorf("%w: open data/results: no such file or directory", domain.ErrCorpusUnavailable)

	stdout, _, err := execute(t, "scan")

	require.Error(t, err)
	assert.Equal(t, ExitCorpus, ExitCode(err))
	assert.Empty(t, stdout)
}

func TestScanCmd_ServiceNotConfigured(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()
	pipelineService = nil

	_, _, err := execute(t, "scan")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline service not configured")
}
