package driving

import "github.com/custodia-labs/tallybridge/internal/core/domain"

// SettingsService manages pipeline settings.
type SettingsService interface {
	// Get resolves the current settings, applying defaults for unset keys.
	Get() (*domain.PipelineSettings, error)

	// Set parses value according to the key's type and persists it.
	Set(key, value string) error

	// Keys returns every recognised configuration key, sorted.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
