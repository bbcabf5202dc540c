package cli

import (
	"errors"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// Process exit codes by error class.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitTransport    = 2
	ExitFormat       = 3
	ExitCorpus       = 4
	ExitWrite        = 5
	ExitVerification = 6
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrTransport):
		return ExitTransport
	case errors.Is(err, domain.ErrFormat):
		return ExitFormat
	case errors.Is(err, domain.ErrCorpusUnavailable):
		return ExitCorpus
	case errors.Is(err, domain.ErrWrite):
		return ExitWrite
	case errors.Is(err, domain.ErrVerification):
		return ExitVerification
	default:
		return ExitFailure
	}
}
