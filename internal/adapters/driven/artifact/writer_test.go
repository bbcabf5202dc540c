package artifact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

func TestEncode(t *testing.T) {
	t.Run("sorted keys and stable field names", func(t *testing.T) {
		data, err := Encode(domain.SummaryArtifact{
			"3100200": {OfficeAVotes: 1, OfficeBVotes: 2},
			"3100100": {OfficeAVotes: 500, OfficeBVotes: 300},
		})

		require.NoError(t, err)
		expected := `{
  "3100100": {
    "officeAVotes": 500,
    "officeBVotes": 300
  },
  "3100200": {
    "officeAVotes": 1,
    "officeBVotes": 2
  }
}
`
		assert.Equal(t, expected, string(data))
	})

	t.Run("empty and nil artifacts encode as empty object", func(t *testing.T) {
		empty, err := Encode(domain.SummaryArtifact{})
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(empty))

		nilData, err := Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(nilData))
	})

	t.Run("identical artifacts encode identically", func(t *testing.T) {
		build := func() domain.SummaryArtifact {
			a := domain.SummaryArtifact{}
			for _, id := range []string{"9", "1", "5", "3", "7"} {
				a[id] = domain.OfficeVotes{OfficeAVotes: 1, OfficeBVotes: 1}
			}
			return a
		}

		first, err := Encode(build())
		require.NoError(t, err)
		second, err := Encode(build())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestWriter_Write(t *testing.T) {
	ctx := context.Background()
	artifact := domain.SummaryArtifact{"3100100": {OfficeAVotes: 500, OfficeBVotes: 300}}

	t.Run("writes artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.json")
		writer := NewWriter(path)

		require.NoError(t, writer.Write(ctx, artifact))
		assert.Equal(t, path, writer.Path())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded domain.SummaryArtifact
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, artifact, decoded)
	})

	t.Run("rewrite is byte identical", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.json")
		writer := NewWriter(path)

		require.NoError(t, writer.Write(ctx, artifact))
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, writer.Write(ctx, artifact))
		second, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("replaces stale entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.json")
		writer := NewWriter(path)
		require.NoError(t, writer.Write(ctx, domain.SummaryArtifact{"old": {OfficeAVotes: 1}}))

		require.NoError(t, writer.Write(ctx, artifact))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "old")
	})

	t.Run("failure is a write error and keeps previous artifact", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("directory permissions are not enforced on windows")
		}
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}
		dir := t.TempDir()
		path := filepath.Join(dir, "summary.json")
		require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))
		require.NoError(t, os.Chmod(dir, 0555))
		t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

		err := NewWriter(path).Write(ctx, artifact)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWrite)
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "previous", string(data))
	})

	t.Run("parent is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

		err := NewWriter(filepath.Join(parent, "summary.json")).Write(ctx, artifact)

		assert.ErrorIs(t, err, domain.ErrWrite)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := NewWriter(filepath.Join(t.TempDir(), "summary.json")).Write(cancelled, artifact)

		assert.ErrorIs(t, err, domain.ErrWrite)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
