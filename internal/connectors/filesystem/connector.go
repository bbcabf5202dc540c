// Package filesystem provides the local raw result corpus.
//
// Each regular file directly inside the corpus directory whose name ends with
// the configured extension is one raw result document; its external
// identifier is the file name without the extension. Hidden files,
// subdirectories and the summary artifact itself are never listed.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.Corpus        = (*Connector)(nil)
	_ driven.CorpusWatcher = (*Connector)(nil)
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Connector lists, reads and watches a corpus directory.
type Connector struct {
	rootPath    string
	extension   string
	excludePath string
	debounce    time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// Option configures a Connector.
type Option func(*Connector)

// WithExclude excludes a file (normally the summary artifact) from the corpus.
func WithExclude(path string) Option {
	return func(c *Connector) {
		c.excludePath = path
	}
}

// WithDebounce sets the watch debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Connector) {
		c.debounce = d
	}
}

// New creates a corpus connector for rootPath.
// extension includes the leading dot, e.g. ".json".
func New(rootPath, extension string, opts ...Option) *Connector {
	c := &Connector{
		rootPath:  rootPath,
		extension: extension,
		debounce:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the corpus directory.
func (c *Connector) Location() string {
	return c.rootPath
}

// List returns the external identifiers of all documents, sorted.
func (c *Connector) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !c.isDocument(filepath.Join(c.rootPath, name)) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, filepath.Ext(name)))
	}

	sort.Strings(ids)
	return ids, nil
}

// Read returns the content of the document for externalID.
func (c *Connector) Read(ctx context.Context, externalID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if externalID == "" || strings.ContainsAny(externalID, `/\`) || externalID == ".." {
		return nil, fmt.Errorf("%w: external id %q", domain.ErrInvalidInput, externalID)
	}
	return os.ReadFile(filepath.Join(c.rootPath, externalID+c.extension))
}

// Watch sends a value after each burst of document changes settles.
// The returned channel is closed when ctx is cancelled or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("watch %s: connector closed", c.rootPath)
	}
	c.mu.Unlock()

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrCorpusUnavailable, c.rootPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	changes := make(chan struct{}, 1)
	go c.watchLoop(ctx, watcher, changes)
	return changes, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- struct{}) {
	defer close(changes)
	defer watcher.Close()

	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !c.isRelevant(event) {
				continue
			}
			logger.Debug("Corpus event: %s %s", event.Op, event.Name)
			pending = true
			timer.Reset(c.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Corpus watch error: %v", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case changes <- struct{}{}:
			default:
				// A notification is already queued.
			}
		}
	}
}

// isRelevant reports whether an fsnotify event touches a corpus document.
func (c *Connector) isRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if !c.isDocument(event.Name) {
		return false
	}
	// Removed and renamed files no longer exist, so only stat the others.
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// isDocument applies the name rules shared by List and Watch.
func (c *Connector) isDocument(path string) bool {
	name := filepath.Base(path)
	if isHidden(name) {
		return false
	}
	if filepath.Ext(name) != c.extension || name == c.extension {
		return false
	}
	return !c.isExcluded(path)
}

// isExcluded reports whether path is the excluded artifact.
func (c *Connector) isExcluded(path string) bool {
	if c.excludePath == "" {
		return false
	}
	a, errA := filepath.Abs(path)
	b, errB := filepath.Abs(c.excludePath)
	if errA != nil || errB != nil {
		return filepath.Clean(path) == filepath.Clean(c.excludePath)
	}
	return a == b
}

// Close stops all watchers. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, w := range c.watchers {
		_ = w.Close()
	}
	c.watchers = nil
	return nil
}

// isHidden reports whether a file name starts with a dot.
// "." and ".." are not hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
