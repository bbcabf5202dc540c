// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a pipeline run:
//
//   - CrosswalkSource: Loads the identifier mapping (HTTP)
//   - Corpus: Lists and reads raw result documents (filesystem)
//   - ResultExtractor: Reads target candidate votes from a document (JSON)
//   - ArtifactWriter: Persists the summary artifact atomically (filesystem)
//   - ConfigStore: Application configuration (TOML)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run history (SQLite). Without it, runs are not recorded.
//   - CorpusWatcher: Change notification for watch mode (fsnotify).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
