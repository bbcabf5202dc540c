package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

func TestCrosswalkSource_Load(t *testing.T) {
	src := NewCrosswalkSource(domain.CrosswalkEntry{ExternalID: "100", CanonicalID: "3100100"})

	c, err := src.Load(context.Background())
	require.NoError(t, err)
	id, ok := c.Resolve("100")
	assert.True(t, ok)
	assert.Equal(t, "3100100", id)

	boom := errors.New("boom")
	_, err = src.FailWith(boom).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCorpus_ListSorted(t *testing.T) {
	c := NewCorpus().Put("300", nil).Put("100", nil).Put("200", nil)

	ids, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200", "300"}, ids)

	_, err = c.Read(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactWriter_CopiesArtifact(t *testing.T) {
	w := NewArtifactWriter()
	artifact := domain.SummaryArtifact{"1": {OfficeAVotes: 1}}

	require.NoError(t, w.Write(context.Background(), artifact))
	artifact["2"] = domain.OfficeVotes{}

	assert.Len(t, w.Artifact(), 1)
	assert.Equal(t, 1, w.Writes())
}
