package domain

import "time"

// RunStatus is the outcome of a pipeline run.
type RunStatus string

// Run statuses.
const (
	// RunStatusSucceeded means the artifact was written.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusDryRun means the run completed without writing.
	RunStatusDryRun RunStatus = "dry_run"

	// RunStatusFailed means a fatal error aborted the run.
	RunStatusFailed RunStatus = "failed"
)

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// IssueKind classifies a non-fatal observation made during a run.
type IssueKind string

// Issue kinds.
const (
	// IssueUnmapped is a corpus document with no crosswalk entry.
	IssueUnmapped IssueKind = "unmapped"

	// IssueExtractionFailed is a corpus document that could not be parsed.
	IssueExtractionFailed IssueKind = "extraction_failed"

	// IssueDuplicateExternal is an external identifier repeated in the crosswalk.
	IssueDuplicateExternal IssueKind = "duplicate_external"

	// IssueCanonicalCollision is a canonical identifier reached by more than
	// one external identifier. The later document in scan order wins.
	IssueCanonicalCollision IssueKind = "canonical_collision"
)

// String returns the string representation.
func (k IssueKind) String() string {
	return string(k)
}

// Issue is a single operator-facing observation.
type Issue struct {
	Kind       IssueKind
	ExternalID string
	Detail     string
}

// RunReport is what a run reports to the operator.
type RunReport struct {
	// RunID identifies the run in history.
	RunID string

	// Scanned is the number of documents found in the corpus.
	Scanned int

	// Emitted is the number of records in the artifact.
	Emitted int

	// Unmapped counts documents with no crosswalk entry.
	Unmapped int

	// Failed counts documents whose extraction failed.
	Failed int

	// CrosswalkEntries is the number of distinct external identifiers loaded.
	CrosswalkEntries int

	// CrosswalkDuplicates counts repeated external identifiers in the crosswalk.
	CrosswalkDuplicates int

	// Collisions counts records replaced by a later document with the same
	// canonical identifier.
	Collisions int

	// TotalOfficeA and TotalOfficeB are the running sums over emitted records.
	TotalOfficeA int64
	TotalOfficeB int64

	// Verification is the comparison against expected totals.
	Verification Verification

	// Issues lists every non-fatal observation, in scan order.
	Issues []Issue

	// OutputPath is where the artifact was written. Empty for dry runs.
	OutputPath string
}

// Verification compares computed totals with independently known totals.
type Verification struct {
	// Checked is false when no expected totals were configured.
	Checked bool

	// ExpectedOfficeA and ExpectedOfficeB are zero when unset.
	ExpectedOfficeA int64
	ExpectedOfficeB int64

	// Consistent reports that the artifact sums equal the running totals.
	Consistent bool

	// Matches reports that every configured expected total equals the computed one.
	Matches bool
}

// RunRecord is a persisted run summary.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Status       RunStatus
	Error        string
	Scanned      int
	Emitted      int
	Unmapped     int
	Failed       int
	Duplicates   int
	Collisions   int
	TotalOfficeA int64
	TotalOfficeB int64
	OutputPath   string
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
