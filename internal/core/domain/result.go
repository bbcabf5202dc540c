package domain

// Office identifies one of the two elected positions being extracted.
type Office string

// Extracted offices.
const (
	// OfficeA is the first extracted office (federal legislative seat).
	OfficeA Office = "office_a"

	// OfficeB is the second extracted office (state legislative seat).
	OfficeB Office = "office_b"
)

// String returns the string representation.
func (o Office) String() string {
	return string(o)
}

// CandidateResult is one entry of an office's result list.
type CandidateResult struct {
	// Number is the candidate number. Not necessarily numeric.
	Number string

	// Votes is the recorded vote count.
	Votes int64
}

// FindVotes returns the votes of the entry whose number equals target.
// The boolean is false when no entry matches.
func FindVotes(list []CandidateResult, target string) (int64, bool) {
	for _, c := range list {
		if c.Number == target {
			return c.Votes, true
		}
	}
	return 0, false
}

// ExtractedResult holds the target candidates' votes read from one raw document.
type ExtractedResult struct {
	ExternalID   string
	OfficeAVotes int64
	OfficeBVotes int64
}
