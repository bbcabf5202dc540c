package domain

// SummaryRecord is the output row for one canonical identifier.
type SummaryRecord struct {
	CanonicalID  string
	OfficeAVotes int64
	OfficeBVotes int64
}

// OfficeVotes is the serialised value of one artifact entry.
// Field names and types are the contract the display layer reads.
type OfficeVotes struct {
	OfficeAVotes int64 `json:"officeAVotes"`
	OfficeBVotes int64 `json:"officeBVotes"`
}

// SummaryArtifact maps canonical identifiers to their vote counts.
type SummaryArtifact map[string]OfficeVotes

// Records returns the artifact as summary records.
// Order is unspecified.
func (a SummaryArtifact) Records() []SummaryRecord {
	records := make([]SummaryRecord, 0, len(a))
	for id, v := range a {
		records = append(records, SummaryRecord{
			CanonicalID:  id,
			OfficeAVotes: v.OfficeAVotes,
			OfficeBVotes: v.OfficeBVotes,
		})
	}
	return records
}

// Totals sums both offices across all entries.
func (a SummaryArtifact) Totals() (officeA, officeB int64) {
	for _, v := range a {
		officeA += v.OfficeAVotes
		officeB += v.OfficeBVotes
	}
	return officeA, officeB
}
