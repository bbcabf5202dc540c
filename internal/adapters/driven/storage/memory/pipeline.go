package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
)

// Ensure the in-memory pipeline adapters implement their interfaces.
var (
	_ driven.CrosswalkSource = (*CrosswalkSource)(nil)
	_ driven.Corpus          = (*Corpus)(nil)
	_ driven.ArtifactWriter  = (*ArtifactWriter)(nil)
)

// CrosswalkSource serves a fixed crosswalk.
type CrosswalkSource struct {
	entries []domain.CrosswalkEntry
	err     error
}

// NewCrosswalkSource creates a source returning entries in order.
func NewCrosswalkSource(entries ...domain.CrosswalkEntry) *CrosswalkSource {
	return &CrosswalkSource{entries: entries}
}

// FailWith makes every Load return err.
func (s *CrosswalkSource) FailWith(err error) *CrosswalkSource {
	s.err = err
	return s
}

// Load returns the configured crosswalk.
func (s *CrosswalkSource) Load(_ context.Context) (*domain.Crosswalk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewCrosswalk(s.entries), nil
}

// Corpus is an in-memory document corpus keyed by external identifier.
type Corpus struct {
	mu      sync.RWMutex
	docs    map[string][]byte
	listErr error
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docs: make(map[string][]byte)}
}

// Put stores a document.
func (c *Corpus) Put(externalID string, content []byte) *Corpus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[externalID] = content
	return c
}

// FailListWith makes every List return err.
func (c *Corpus) FailListWith(err error) *Corpus {
	c.listErr = err
	return c
}

// List returns the stored identifiers, sorted.
func (c *Corpus) List(_ context.Context) ([]string, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Read returns a stored document.
func (c *Corpus) Read(_ context.Context, externalID string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.docs[externalID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", externalID, domain.ErrNotFound)
	}
	return content, nil
}

// Location returns a fixed description.
func (c *Corpus) Location() string {
	return ":memory:"
}

// ArtifactWriter keeps the last written artifact.
type ArtifactWriter struct {
	mu       sync.Mutex
	artifact domain.SummaryArtifact
	writes   int
	err      error
}

// NewArtifactWriter creates an in-memory artifact writer.
func NewArtifactWriter() *ArtifactWriter {
	return &ArtifactWriter{}
}

// FailWith makes every Write return err.
func (w *ArtifactWriter) FailWith(err error) *ArtifactWriter {
	w.err = err
	return w
}

// Write stores a copy of the artifact.
func (w *ArtifactWriter) Write(_ context.Context, artifact domain.SummaryArtifact) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.artifact = make(domain.SummaryArtifact, len(artifact))
	for k, v := range artifact {
		w.artifact[k] = v
	}
	w.writes++
	return nil
}

// Artifact returns the last written artifact, or nil.
func (w *ArtifactWriter) Artifact() domain.SummaryArtifact {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.artifact
}

// Writes returns how many successful writes happened.
func (w *ArtifactWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// Path returns a fixed description.
func (w *ArtifactWriter) Path() string {
	return ":memory:"
}
