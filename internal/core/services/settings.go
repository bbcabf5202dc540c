package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCrosswalkURL       = "crosswalk.url"
	keyCrosswalkExternal  = "crosswalk.external_field"
	keyCrosswalkCanonical = "crosswalk.canonical_field"
	keyCrosswalkTimeout   = "crosswalk.timeout_seconds"
	keyCrosswalkRetries   = "crosswalk.retries"
	keyCrosswalkRetryRate = "crosswalk.retry_per_second"
	keyCrosswalkCache     = "crosswalk.cache_path"
	keyCorpusDir          = "corpus.dir"
	keyCorpusExtension    = "corpus.extension"
	keyOfficeAList        = "extract.office_a.list"
	keyOfficeACandidate   = "extract.office_a.candidate"
	keyOfficeBList        = "extract.office_b.list"
	keyOfficeBCandidate   = "extract.office_b.candidate"
	keyNumberField        = "extract.number_field"
	keyVotesField         = "extract.votes_field"
	keyWorkers            = "extract.workers"
	keyOutputPath         = "output.path"
	keyVerifyOfficeA      = "verify.office_a_total"
	keyVerifyOfficeB      = "verify.office_b_total"
	keyHistoryEnabled     = "history.enabled"
)

// keyKind is the value type stored under a key.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

var settingKinds = map[string]keyKind{
	keyCrosswalkURL:       kindString,
	keyCrosswalkExternal:  kindString,
	keyCrosswalkCanonical: kindString,
	keyCrosswalkTimeout:   kindInt,
	keyCrosswalkRetries:   kindInt,
	keyCrosswalkRetryRate: kindFloat,
	keyCrosswalkCache:     kindString,
	keyCorpusDir:          kindString,
	keyCorpusExtension:    kindString,
	keyOfficeAList:        kindString,
	keyOfficeACandidate:   kindString,
	keyOfficeBList:        kindString,
	keyOfficeBCandidate:   kindString,
	keyNumberField:        kindString,
	keyVotesField:         kindString,
	keyWorkers:            kindInt,
	keyOutputPath:         kindString,
	keyVerifyOfficeA:      kindInt,
	keyVerifyOfficeB:      kindInt,
	keyHistoryEnabled:     kindBool,
}

// SettingsService resolves pipeline settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get resolves the current settings, applying defaults for unset keys.
func (s *SettingsService) Get() (*domain.PipelineSettings, error) {
	d := domain.DefaultPipelineSettings()

	settings := &domain.PipelineSettings{
		Crosswalk: domain.CrosswalkSettings{
			URL:            s.configStore.GetString(keyCrosswalkURL), // No default - must be configured
			ExternalField:  s.getString(keyCrosswalkExternal, d.Crosswalk.ExternalField),
			CanonicalField: s.getString(keyCrosswalkCanonical, d.Crosswalk.CanonicalField),
			Timeout:        s.getSeconds(keyCrosswalkTimeout, d.Crosswalk.Timeout),
			Retries:        s.getInt(keyCrosswalkRetries, d.Crosswalk.Retries),
			RetryPerSecond: s.getFloat(keyCrosswalkRetryRate, d.Crosswalk.RetryPerSecond),
			CachePath:      s.configStore.GetString(keyCrosswalkCache),
		},
		CorpusDir:       s.getString(keyCorpusDir, d.CorpusDir),
		CorpusExtension: s.getString(keyCorpusExtension, d.CorpusExtension),
		Extract: domain.ExtractSettings{
			OfficeA: domain.OfficeSettings{
				List:      s.getString(keyOfficeAList, d.Extract.OfficeA.List),
				Candidate: s.getString(keyOfficeACandidate, d.Extract.OfficeA.Candidate),
			},
			OfficeB: domain.OfficeSettings{
				List:      s.getString(keyOfficeBList, d.Extract.OfficeB.List),
				Candidate: s.getString(keyOfficeBCandidate, d.Extract.OfficeB.Candidate),
			},
			NumberField: s.getString(keyNumberField, d.Extract.NumberField),
			VotesField:  s.getString(keyVotesField, d.Extract.VotesField),
			Workers:     s.getInt(keyWorkers, d.Extract.Workers),
		},
		OutputPath: s.getString(keyOutputPath, d.OutputPath),
		Verify: domain.VerifySettings{
			OfficeATotal: int64(s.configStore.GetInt(keyVerifyOfficeA)),
			OfficeBTotal: int64(s.configStore.GetInt(keyVerifyOfficeB)),
		},
		HistoryEnabled: s.getBool(keyHistoryEnabled, d.HistoryEnabled),
	}

	if !strings.HasPrefix(settings.CorpusExtension, ".") {
		settings.CorpusExtension = "." + settings.CorpusExtension
	}

	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised configuration key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// getString returns the string value for key, or the default if not set.
// Hand-edited files may hold candidate numbers as TOML integers.
func (s *SettingsService) getString(key, defaultVal string) string {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		if v != "" {
			return v
		}
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return defaultVal
}

// getInt returns the int value for key, or the default if not set.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

// getFloat returns the float value for key, or the default if not set.
// TOML stores whole numbers as integers, so both are accepted.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

// getBool returns the bool value for key, or the default if not set.
func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

// getSeconds reads an integer number of seconds.
func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); ok {
		return time.Duration(s.configStore.GetInt(key)) * time.Second
	}
	return defaultVal
}
