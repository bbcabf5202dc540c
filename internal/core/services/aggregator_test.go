package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

func TestAggregator_Admit(t *testing.T) {
	crosswalk := domain.NewCrosswalk([]domain.CrosswalkEntry{
		{ExternalID: "100", CanonicalID: "3100100"},
	})
	agg := NewAggregator(crosswalk)

	canonicalID, ok := agg.Admit("100")
	assert.True(t, ok)
	assert.Equal(t, "3100100", canonicalID)

	_, ok = agg.Admit("200")
	assert.False(t, ok)

	report := agg.Report(domain.VerifySettings{})
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Unmapped)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueUnmapped, report.Issues[0].Kind)
	assert.Equal(t, "200", report.Issues[0].ExternalID)
}

func TestAggregator_Add(t *testing.T) {
	t.Run("emits records keyed by canonical id", func(t *testing.T) {
		agg := NewAggregator(domain.NewCrosswalk(nil))

		agg.Add("3100100", domain.ExtractedResult{ExternalID: "100", OfficeAVotes: 500, OfficeBVotes: 300})
		agg.Add("3100200", domain.ExtractedResult{ExternalID: "200", OfficeAVotes: 5, OfficeBVotes: 3})

		assert.Equal(t, domain.SummaryArtifact{
			"3100100": {OfficeAVotes: 500, OfficeBVotes: 300},
			"3100200": {OfficeAVotes: 5, OfficeBVotes: 3},
		}, agg.Artifact())
		totalA, totalB := agg.Totals()
		assert.Equal(t, int64(505), totalA)
		assert.Equal(t, int64(303), totalB)
	})

	t.Run("collision replaces record and its totals", func(t *testing.T) {
		agg := NewAggregator(domain.NewCrosswalk(nil))

		agg.Add("3100100", domain.ExtractedResult{ExternalID: "100", OfficeAVotes: 500, OfficeBVotes: 300})
		agg.Add("3100100", domain.ExtractedResult{ExternalID: "101", OfficeAVotes: 7, OfficeBVotes: 9})

		assert.Equal(t, domain.SummaryArtifact{"3100100": {OfficeAVotes: 7, OfficeBVotes: 9}}, agg.Artifact())
		totalA, totalB := agg.Totals()
		assert.Equal(t, int64(7), totalA)
		assert.Equal(t, int64(9), totalB)

		report := agg.Report(domain.VerifySettings{})
		assert.Equal(t, 1, report.Collisions)
		assert.True(t, report.Verification.Consistent)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, domain.IssueCanonicalCollision, report.Issues[0].Kind)
		assert.Equal(t, "101", report.Issues[0].ExternalID)
		assert.Contains(t, report.Issues[0].Detail, "100")
	})
}

func TestAggregator_Fail(t *testing.T) {
	agg := NewAggregator(domain.NewCrosswalk(nil))

	agg.Fail("100", errors.New("format error: not valid JSON"))

	report := agg.Report(domain.VerifySettings{})
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Emitted)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueExtractionFailed, report.Issues[0].Kind)
	assert.Equal(t, "format error: not valid JSON", report.Issues[0].Detail)
}

func TestAggregator_DuplicateIssues(t *testing.T) {
	crosswalk := domain.NewCrosswalk([]domain.CrosswalkEntry{
		{ExternalID: "100", CanonicalID: "1"},
		{ExternalID: "100", CanonicalID: "2"},
		{ExternalID: "200", CanonicalID: "3"},
	})

	report := NewAggregator(crosswalk).Report(domain.VerifySettings{})

	assert.Equal(t, 2, report.CrosswalkEntries)
	assert.Equal(t, 1, report.CrosswalkDuplicates)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueDuplicateExternal, report.Issues[0].Kind)
	assert.Equal(t, "100", report.Issues[0].ExternalID)
}

func TestAggregator_Verify(t *testing.T) {
	newAgg := func() *Aggregator {
		agg := NewAggregator(domain.NewCrosswalk(nil))
		agg.Add("1", domain.ExtractedResult{ExternalID: "a", OfficeAVotes: 500, OfficeBVotes: 300})
		return agg
	}

	tests := []struct {
		name     string
		expected domain.VerifySettings
		checked  bool
		matches  bool
	}{
		{"no expected totals", domain.VerifySettings{}, false, true},
		{"both match", domain.VerifySettings{OfficeATotal: 500, OfficeBTotal: 300}, true, true},
		{"only office A set", domain.VerifySettings{OfficeATotal: 500}, true, true},
		{"office A differs", domain.VerifySettings{OfficeATotal: 501, OfficeBTotal: 300}, true, false},
		{"office B differs", domain.VerifySettings{OfficeBTotal: 1}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newAgg().Verify(tt.expected)

			assert.Equal(t, tt.checked, v.Checked)
			assert.Equal(t, tt.matches, v.Matches)
			assert.True(t, v.Consistent)
			assert.Equal(t, tt.expected.OfficeATotal, v.ExpectedOfficeA)
			assert.Equal(t, tt.expected.OfficeBTotal, v.ExpectedOfficeB)
		})
	}
}

func TestAggregator_NilCrosswalk(t *testing.T) {
	agg := NewAggregator(nil)

	_, ok := agg.Admit("100")

	assert.False(t, ok)
	report := agg.Report(domain.VerifySettings{})
	assert.Equal(t, 0, report.CrosswalkEntries)
	assert.Equal(t, 1, report.Unmapped)
}
