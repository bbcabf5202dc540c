// Package artifact writes the summary artifact to the local filesystem.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/tallybridge/internal/atomicfile"
	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ArtifactWriter = (*Writer)(nil)

// Writer serialises the artifact as indented JSON with sorted keys.
type Writer struct {
	path string
}

// NewWriter creates a writer for path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the artifact destination.
func (w *Writer) Path() string {
	return w.path
}

// Write replaces the artifact atomically.
func (w *Writer) Write(ctx context.Context, artifact domain.SummaryArtifact) error {
	data, err := Encode(artifact)
	if err != nil {
		return fmt.Errorf("%w: encode artifact: %w", domain.ErrWrite, err)
	}
	if err := atomicfile.WriteFile(ctx, w.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	return nil
}

// Encode renders the artifact. Identical artifacts encode to identical bytes.
func Encode(artifact domain.SummaryArtifact) ([]byte, error) {
	if artifact == nil {
		artifact = domain.SummaryArtifact{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	// Map keys are sorted by encoding/json; Encode appends the trailing newline.
	if err := enc.Encode(artifact); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
