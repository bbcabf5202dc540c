package services

import (
	"fmt"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// Aggregator joins extracted results to the crosswalk and keeps the running
// totals for a single run. It is not safe for concurrent use: results must be
// folded in by one goroutine.
type Aggregator struct {
	crosswalk *domain.Crosswalk
	artifact  domain.SummaryArtifact

	// source records which external identifier supplied each canonical record.
	source map[string]string

	scanned    int
	unmapped   int
	failed     int
	collisions int
	totalA     int64
	totalB     int64
	issues     []domain.Issue
}

// NewAggregator creates an aggregator over a loaded crosswalk.
// Crosswalk duplicates are recorded as issues up front.
func NewAggregator(crosswalk *domain.Crosswalk) *Aggregator {
	a := &Aggregator{
		crosswalk: crosswalk,
		artifact:  make(domain.SummaryArtifact),
		source:    make(map[string]string),
	}
	if crosswalk != nil {
		for _, id := range crosswalk.DuplicateIDs {
			a.issues = append(a.issues, domain.Issue{
				Kind:       domain.IssueDuplicateExternal,
				ExternalID: id,
				Detail:     "repeated in crosswalk, last entry kept",
			})
		}
	}
	return a
}

// Admit resolves a scanned external identifier.
// Unmapped identifiers are counted and reported with ok == false.
func (a *Aggregator) Admit(externalID string) (canonicalID string, ok bool) {
	a.scanned++
	canonicalID, ok = a.crosswalk.Resolve(externalID)
	if !ok {
		a.unmapped++
		a.issues = append(a.issues, domain.Issue{
			Kind:       domain.IssueUnmapped,
			ExternalID: externalID,
			Detail:     "no crosswalk entry",
		})
	}
	return canonicalID, ok
}

// Add stores the record for canonicalID, replacing any earlier record.
// A replaced record's votes are taken out of the totals so the totals always
// equal the sum over the artifact.
func (a *Aggregator) Add(canonicalID string, result domain.ExtractedResult) {
	if prev, exists := a.artifact[canonicalID]; exists {
		a.collisions++
		a.totalA -= prev.OfficeAVotes
		a.totalB -= prev.OfficeBVotes
		a.issues = append(a.issues, domain.Issue{
			Kind:       domain.IssueCanonicalCollision,
			ExternalID: result.ExternalID,
			Detail: fmt.Sprintf("canonical %s already supplied by %s, replaced",
				canonicalID, a.source[canonicalID]),
		})
	}

	a.artifact[canonicalID] = domain.OfficeVotes{
		OfficeAVotes: result.OfficeAVotes,
		OfficeBVotes: result.OfficeBVotes,
	}
	a.source[canonicalID] = result.ExternalID
	a.totalA += result.OfficeAVotes
	a.totalB += result.OfficeBVotes
}

// Fail records a document whose extraction failed.
func (a *Aggregator) Fail(externalID string, err error) {
	a.failed++
	a.issues = append(a.issues, domain.Issue{
		Kind:       domain.IssueExtractionFailed,
		ExternalID: externalID,
		Detail:     err.Error(),
	})
}

// Artifact returns the accumulated artifact.
func (a *Aggregator) Artifact() domain.SummaryArtifact {
	return a.artifact
}

// Totals returns the running office totals.
func (a *Aggregator) Totals() (officeA, officeB int64) {
	return a.totalA, a.totalB
}

// Verify checks the running totals against the artifact and against any
// configured expected totals.
func (a *Aggregator) Verify(expected domain.VerifySettings) domain.Verification {
	sumA, sumB := a.artifact.Totals()
	v := domain.Verification{
		Checked:         expected.IsSet(),
		ExpectedOfficeA: expected.OfficeATotal,
		ExpectedOfficeB: expected.OfficeBTotal,
		Consistent:      sumA == a.totalA && sumB == a.totalB,
		Matches:         true,
	}
	if expected.OfficeATotal > 0 && expected.OfficeATotal != a.totalA {
		v.Matches = false
	}
	if expected.OfficeBTotal > 0 && expected.OfficeBTotal != a.totalB {
		v.Matches = false
	}
	return v
}

// Report builds the operator report for the current state.
func (a *Aggregator) Report(expected domain.VerifySettings) *domain.RunReport {
	r := &domain.RunReport{
		Scanned:      a.scanned,
		Emitted:      len(a.artifact),
		Unmapped:     a.unmapped,
		Failed:       a.failed,
		Collisions:   a.collisions,
		TotalOfficeA: a.totalA,
		TotalOfficeB: a.totalB,
		Verification: a.Verify(expected),
		Issues:       append([]domain.Issue(nil), a.issues...),
	}
	if a.crosswalk != nil {
		r.CrosswalkEntries = a.crosswalk.Len()
		r.CrosswalkDuplicates = a.crosswalk.Duplicates
	}
	return r
}
