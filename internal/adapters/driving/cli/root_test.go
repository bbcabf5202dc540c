package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "tallybridge", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "verbose", shorthand: "v"},
		{name: "quiet", shorthand: "q"},
		{name: "config-dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "scan", "history", "config", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSetup_BootstrapsServices(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	settings := &mockSettings{}
	var gotDir string
	released := false

	SetServices(nil)
	SetBootstrap(func(dir string) (*Services, func(), error) {
		gotDir = dir
		return &Services{Settings: settings}, func() { released = true }, nil
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--config-dir", "/tmp/tb-config", "config", "path"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		resetFlags()
	})

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/tb-config", gotDir)
	assert.Same(t, settings, settingsService)
	assert.True(t, released, "cleanup runs when Execute returns")
	assert.Nil(t, cleanup)
	assert.Contains(t, buf.String(), "/tmp/tallybridge/config.toml")
}

func TestSetup_BootstrapError(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	SetServices(nil)
	SetBootstrap(func(string) (*Services, func(), error) {
		return nil, nil, errors.New("open history: disk full")
	})

	_, _, err := execute(t, "scan")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSetup_VersionSkipsBootstrap(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	SetServices(nil)
	called := false
	SetBootstrap(func(string) (*Services, func(), error) {
		called = true
		return &Services{}, nil, nil
	})

	_, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestSetup_ExistingServicesSkipBootstrap(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	called := false
	SetBootstrap(func(string) (*Services, func(), error) {
		called = true
		return &Services{}, nil, nil
	})

	_, _, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestSetServices_Nil(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	SetServices(nil)

	assert.Nil(t, pipelineService)
	assert.Nil(t, historyService)
	assert.Nil(t, settingsService)
	assert.Nil(t, watchService)
}
