// Package domain defines the core business entities for tallybridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Crosswalk: External-to-canonical identifier mapping
//   - CandidateResult: One entry of an office's result list
//   - ExtractedResult: Target candidate votes read from one raw document
//   - SummaryArtifact: The canonical-id-keyed output document
//   - RunReport: Counters and totals reported after a run
//   - PipelineSettings: Resolved configuration for a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
