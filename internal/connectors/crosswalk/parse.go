package crosswalk

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// ParseCrosswalk parses a JSON array of records into a crosswalk.
// Each record must carry non-empty externalField and canonicalField values,
// either as strings or as integer numbers.
func ParseCrosswalk(data []byte, externalField, canonicalField string) (*domain.Crosswalk, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: crosswalk is not valid JSON", domain.ErrFormat)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: crosswalk must be a JSON array, got %s", domain.ErrFormat, root.Type)
	}

	externalPath := gjson.Escape(externalField)
	canonicalPath := gjson.Escape(canonicalField)

	var entries []domain.CrosswalkEntry
	var parseErr error
	index := 0
	root.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			parseErr = fmt.Errorf("%w: crosswalk record %d is not an object", domain.ErrFormat, index)
			return false
		}
		externalID, err := identifier(record.Get(externalPath))
		if err != nil {
			parseErr = fmt.Errorf("%w: crosswalk record %d field %q: %v", domain.ErrFormat, index, externalField, err)
			return false
		}
		canonicalID, err := identifier(record.Get(canonicalPath))
		if err != nil {
			parseErr = fmt.Errorf("%w: crosswalk record %d field %q: %v", domain.ErrFormat, index, canonicalField, err)
			return false
		}
		entries = append(entries, domain.CrosswalkEntry{ExternalID: externalID, CanonicalID: canonicalID})
		index++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return domain.NewCrosswalk(entries), nil
}

// identifier reads an identifier that may be encoded as a string or an integer.
func identifier(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.String:
		if v.Str == "" {
			return "", errors.New("empty")
		}
		return v.Str, nil
	case gjson.Number:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%s is not a non-negative integer", v.Raw)
		}
		return strconv.FormatInt(n, 10), nil
	case gjson.Null:
		if !v.Exists() {
			return "", errors.New("missing")
		}
		return "", errors.New("null")
	default:
		return "", fmt.Errorf("unexpected %s", v.Type)
	}
}
