// Package jsonpath extracts target candidate votes from JSON result documents.
package jsonpath

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ResultExtractor = (*Extractor)(nil)

// Extractor reads office result lists located by gjson paths.
//
// Office list settings are gjson paths, so "federal" and "results.federal"
// both work. Entry fields are plain keys.
type Extractor struct {
	officeA     domain.OfficeSettings
	officeB     domain.OfficeSettings
	numberField string
	votesField  string
}

// New creates an extractor from the extract settings.
func New(settings domain.ExtractSettings) *Extractor {
	return &Extractor{
		officeA:     settings.OfficeA,
		officeB:     settings.OfficeB,
		numberField: gjson.Escape(settings.NumberField),
		votesField:  gjson.Escape(settings.VotesField),
	}
}

// Extract returns the target candidates' votes for both offices.
func (e *Extractor) Extract(ctx context.Context, externalID string, content []byte) (domain.ExtractedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractedResult{}, err
	}
	if !gjson.ValidBytes(content) {
		return domain.ExtractedResult{}, fmt.Errorf("%w: not valid JSON", domain.ErrFormat)
	}

	root := gjson.ParseBytes(content)
	if !root.IsObject() {
		return domain.ExtractedResult{}, fmt.Errorf("%w: document root must be an object", domain.ErrFormat)
	}

	officeA, err := e.officeVotes(root, domain.OfficeA, e.officeA)
	if err != nil {
		return domain.ExtractedResult{}, err
	}
	officeB, err := e.officeVotes(root, domain.OfficeB, e.officeB)
	if err != nil {
		return domain.ExtractedResult{}, err
	}

	return domain.ExtractedResult{
		ExternalID:   externalID,
		OfficeAVotes: officeA,
		OfficeBVotes: officeB,
	}, nil
}

// officeVotes returns the target's votes, or 0 when the target is absent.
func (e *Extractor) officeVotes(root gjson.Result, office domain.Office, settings domain.OfficeSettings) (int64, error) {
	list, err := e.candidates(root, settings.List, settings.Candidate)
	if err != nil {
		return 0, fmt.Errorf("%w: %s list %q: %v", domain.ErrFormat, office, settings.List, err)
	}
	votes, _ := domain.FindVotes(list, settings.Candidate)
	return votes, nil
}

// candidates decodes the candidate result list at path.
// Nested arrays are flattened in document order. Every entry must be an
// object; only entries for target need readable votes, other entries with
// unreadable fields are dropped.
func (e *Extractor) candidates(root gjson.Result, path, target string) ([]domain.CandidateResult, error) {
	value := root.Get(path)
	if !value.Exists() {
		return nil, errors.New("missing")
	}
	if !value.IsArray() {
		return nil, fmt.Errorf("expected array, got %s", value.Type)
	}

	var list []domain.CandidateResult
	index := 0
	if err := e.collect(value, target, &index, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (e *Extractor) collect(array gjson.Result, target string, index *int, list *[]domain.CandidateResult) error {
	var err error
	array.ForEach(func(_, entry gjson.Result) bool {
		if entry.IsArray() {
			err = e.collect(entry, target, index, list)
			return err == nil
		}
		i := *index
		*index++

		var (
			c  domain.CandidateResult
			ok bool
		)
		c, ok, err = e.candidate(entry, target)
		if err != nil {
			err = fmt.Errorf("entry %d: %w", i, err)
			return false
		}
		if ok {
			*list = append(*list, c)
		}
		return true
	})
	return err
}

// candidate decodes one entry. ok is false for a non-target entry whose
// fields cannot be read.
func (e *Extractor) candidate(entry gjson.Result, target string) (c domain.CandidateResult, ok bool, err error) {
	if !entry.IsObject() {
		return c, false, fmt.Errorf("expected object, got %s", entry.Type)
	}

	number, err := candidateNumber(entry.Get(e.numberField))
	if err != nil {
		return c, false, nil
	}
	votes, err := voteCount(entry.Get(e.votesField))
	if err != nil {
		if number == target {
			return c, false, fmt.Errorf("candidate %s votes: %w", number, err)
		}
		return c, false, nil
	}
	return domain.CandidateResult{Number: number, Votes: votes}, true, nil
}

// candidateNumber accepts a string or an integer literal.
func candidateNumber(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.String:
		if v.Str == "" {
			return "", errors.New("empty")
		}
		return v.Str, nil
	case gjson.Number:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%s is not an integer", v.Raw)
		}
		return strconv.FormatInt(n, 10), nil
	default:
		if !v.Exists() {
			return "", errors.New("missing")
		}
		return "", fmt.Errorf("unexpected %s", v.Type)
	}
}

// voteCount accepts a non-negative integer, possibly encoded as a string.
func voteCount(v gjson.Result) (int64, error) {
	switch v.Type {
	case gjson.Number:
		return parseVotes(v.Raw)
	case gjson.String:
		return parseVotes(strings.TrimSpace(v.Str))
	default:
		if !v.Exists() {
			return 0, errors.New("missing")
		}
		return 0, fmt.Errorf("unexpected %s", v.Type)
	}
}

func parseVotes(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
