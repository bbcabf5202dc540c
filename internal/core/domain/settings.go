package domain

import (
	"fmt"
	"strings"
	"time"
)

// CrosswalkSettings configures the crosswalk loader.
type CrosswalkSettings struct {
	// URL is the remote location of the crosswalk document.
	URL string

	// ExternalField and CanonicalField name the record fields to read.
	ExternalField  string
	CanonicalField string

	// Timeout bounds the fetch. Zero disables it.
	Timeout time.Duration

	// Retries is the number of additional attempts after a transport failure.
	Retries int

	// RetryPerSecond paces retry attempts.
	RetryPerSecond float64

	// CachePath stores the last successfully fetched payload. Empty disables caching.
	CachePath string
}

// OfficeSettings locates one office's result list and its target candidate.
type OfficeSettings struct {
	// List is the path of the result list within a raw document.
	List string

	// Candidate is the target candidate number.
	Candidate string
}

// ExtractSettings configures the result extractor.
type ExtractSettings struct {
	OfficeA     OfficeSettings
	OfficeB     OfficeSettings
	NumberField string
	VotesField  string

	// Workers is the number of concurrent extractions. 1 means sequential.
	Workers int
}

// VerifySettings holds independently known totals. Zero means unset.
type VerifySettings struct {
	OfficeATotal int64
	OfficeBTotal int64
}

// IsSet returns true if any expected total is configured.
func (v VerifySettings) IsSet() bool {
	return v.OfficeATotal > 0 || v.OfficeBTotal > 0
}

// PipelineSettings holds all configuration for a run.
type PipelineSettings struct {
	Crosswalk       CrosswalkSettings
	CorpusDir       string
	CorpusExtension string
	Extract         ExtractSettings
	OutputPath      string
	Verify          VerifySettings
	HistoryEnabled  bool
}

// DefaultPipelineSettings returns the settings used when the config file is silent.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		Crosswalk: CrosswalkSettings{
			ExternalField:  "codigo_tse",
			CanonicalField: "codigo_ibge",
			Timeout:        30 * time.Second,
			Retries:        2,
			RetryPerSecond: 1,
		},
		CorpusDir:       "data/results",
		CorpusExtension: ".json",
		Extract: ExtractSettings{
			OfficeA:     OfficeSettings{List: "federal", Candidate: "2233"},
			OfficeB:     OfficeSettings{List: "state", Candidate: "22333"},
			NumberField: "n",
			VotesField:  "vap",
			Workers:     1,
		},
		OutputPath:     "data/results/summary.json",
		HistoryEnabled: true,
	}
}

// Validate checks that a run can be attempted with these settings.
func (s PipelineSettings) Validate() error {
	var missing []string
	if s.Crosswalk.URL == "" {
		missing = append(missing, "crosswalk.url")
	}
	if s.Crosswalk.ExternalField == "" {
		missing = append(missing, "crosswalk.external_field")
	}
	if s.Crosswalk.CanonicalField == "" {
		missing = append(missing, "crosswalk.canonical_field")
	}
	if s.CorpusDir == "" {
		missing = append(missing, "corpus.dir")
	}
	if s.Extract.OfficeA.List == "" || s.Extract.OfficeA.Candidate == "" {
		missing = append(missing, "extract.office_a")
	}
	if s.Extract.OfficeB.List == "" || s.Extract.OfficeB.Candidate == "" {
		missing = append(missing, "extract.office_b")
	}
	if s.Extract.NumberField == "" || s.Extract.VotesField == "" {
		missing = append(missing, "extract.number_field/votes_field")
	}
	if s.OutputPath == "" {
		missing = append(missing, "output.path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	if s.Extract.Workers < 1 {
		return fmt.Errorf("%w: extract.workers must be at least 1", ErrInvalidInput)
	}
	if s.Crosswalk.Retries < 0 {
		return fmt.Errorf("%w: crosswalk.retries must not be negative", ErrInvalidInput)
	}
	return nil
}
