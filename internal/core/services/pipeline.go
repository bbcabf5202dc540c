package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.Pipeline = (*PipelineService)(nil)

// PipelineService runs the crosswalk reconciliation job.
type PipelineService struct {
	settings  domain.PipelineSettings
	crosswalk driven.CrosswalkSource
	cache     driven.CrosswalkSource
	corpus    driven.Corpus
	extractor driven.ResultExtractor
	writer    driven.ArtifactWriter
	runStore  driven.RunStore

	now func() time.Time
}

// NewPipelineService creates a pipeline service.
// The cache source and run store are optional. Without a cache, offline runs
// fail; without a run store, runs are not recorded.
func NewPipelineService(
	settings domain.PipelineSettings,
	crosswalk driven.CrosswalkSource,
	cache driven.CrosswalkSource,
	corpus driven.Corpus,
	extractor driven.ResultExtractor,
	writer driven.ArtifactWriter,
	runStore driven.RunStore,
) *PipelineService {
	return &PipelineService{
		settings:  settings,
		crosswalk: crosswalk,
		cache:     cache,
		corpus:    corpus,
		extractor: extractor,
		writer:    writer,
		runStore:  runStore,
		now:       time.Now,
	}
}

// job is one mapped document awaiting extraction.
type job struct {
	externalID  string
	canonicalID string
}

// outcome is the extraction result for a job.
type outcome struct {
	result domain.ExtractedResult
	err    error
}

// Run executes the full pipeline.
func (p *PipelineService) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	record := domain.RunRecord{
		ID:        uuid.New().String(),
		StartedAt: p.now(),
	}

	report, err := p.run(ctx, opts)
	record.EndedAt = p.now()

	var issues []domain.Issue
	if report != nil {
		report.RunID = record.ID
		issues = report.Issues
		record.Scanned = report.Scanned
		record.Emitted = report.Emitted
		record.Unmapped = report.Unmapped
		record.Failed = report.Failed
		record.Duplicates = report.CrosswalkDuplicates
		record.Collisions = report.Collisions
		record.TotalOfficeA = report.TotalOfficeA
		record.TotalOfficeB = report.TotalOfficeB
		record.OutputPath = report.OutputPath
	}

	switch {
	case err != nil:
		record.Status = domain.RunStatusFailed
		record.Error = err.Error()
	case opts.DryRun:
		record.Status = domain.RunStatusDryRun
	default:
		record.Status = domain.RunStatusSucceeded
	}

	p.saveRun(ctx, record, issues)

	return report, err
}

//nolint:gocyclo // Orchestration function with necessary sequential steps
func (p *PipelineService) run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	if err := p.settings.Validate(); err != nil {
		return nil, err
	}

	// 1. Crosswalk
	logger.Section("Crosswalk")
	crosswalk, err := p.loadCrosswalk(ctx, opts.Offline)
	if err != nil {
		return nil, fmt.Errorf("load crosswalk: %w", err)
	}
	logger.Info("Loaded %d crosswalk entries (%d duplicates)", crosswalk.Len(), crosswalk.Duplicates)
	if crosswalk.Duplicates > 0 {
		logger.Warn("Crosswalk repeats %d external identifiers; the last entry of each was kept",
			crosswalk.Duplicates)
	}

	// 2. Corpus
	logger.Section("Corpus")
	ids, err := p.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	logger.Info("Found %d documents in %s", len(ids), p.corpus.Location())

	// 3. Join, extract, aggregate
	logger.Section("Extract")
	agg := NewAggregator(crosswalk)
	jobs := make([]job, 0, len(ids))
	for _, id := range ids {
		canonicalID, ok := agg.Admit(id)
		if !ok {
			logger.Debug("Unmapped: %s", id)
			continue
		}
		jobs = append(jobs, job{externalID: id, canonicalID: canonicalID})
	}

	outcomes, err := p.extractAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	// Fold in scan order so canonical collisions resolve deterministically.
	for i, j := range jobs {
		o := outcomes[i]
		if o.err != nil {
			logger.Warn("Skipping %s: %v", j.externalID, o.err)
			agg.Fail(j.externalID, o.err)
			continue
		}
		agg.Add(j.canonicalID, o.result)
	}

	report := agg.Report(p.settings.Verify)
	logger.Info("Emitted %d records, %d unmapped, %d failed", report.Emitted, report.Unmapped, report.Failed)

	// 4. Verify
	if !report.Verification.Consistent {
		return report, fmt.Errorf("%w: running totals disagree with artifact sums", domain.ErrVerification)
	}
	if opts.Strict && report.Verification.Checked && !report.Verification.Matches {
		return report, fmt.Errorf("%w: office A %d (expected %d), office B %d (expected %d)",
			domain.ErrVerification,
			report.TotalOfficeA, report.Verification.ExpectedOfficeA,
			report.TotalOfficeB, report.Verification.ExpectedOfficeB)
	}

	// 5. Write
	if opts.DryRun {
		logger.Info("Dry run: artifact not written")
		return report, nil
	}
	logger.Section("Write")
	if err := p.writer.Write(ctx, agg.Artifact()); err != nil {
		return report, fmt.Errorf("write artifact: %w", err)
	}
	report.OutputPath = p.writer.Path()
	logger.Info("Wrote %s", report.OutputPath)

	return report, nil
}

// Scan lists corpus documents with their mapping status.
func (p *PipelineService) Scan(ctx context.Context, opts driving.RunOptions) ([]driving.ScanEntry, error) {
	if err := p.settings.Validate(); err != nil {
		return nil, err
	}

	crosswalk, err := p.loadCrosswalk(ctx, opts.Offline)
	if err != nil {
		return nil, fmt.Errorf("load crosswalk: %w", err)
	}

	ids, err := p.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	entries := make([]driving.ScanEntry, 0, len(ids))
	for _, id := range ids {
		canonicalID, ok := crosswalk.Resolve(id)
		entries = append(entries, driving.ScanEntry{
			ExternalID:  id,
			CanonicalID: canonicalID,
			Mapped:      ok,
		})
	}
	return entries, nil
}

func (p *PipelineService) loadCrosswalk(ctx context.Context, offline bool) (*domain.Crosswalk, error) {
	if offline {
		if p.cache == nil {
			return nil, fmt.Errorf("%w: crosswalk.cache_path is required for offline runs", domain.ErrNotConfigured)
		}
		logger.Info("Loading crosswalk from cache")
		return p.cache.Load(ctx)
	}
	logger.Info("Fetching crosswalk from %s", p.settings.Crosswalk.URL)
	return p.crosswalk.Load(ctx)
}

// extractAll reads and extracts every job with the configured number of
// workers. Outcomes are indexed like jobs. Only cancellation is returned as an
// error; per-document failures are carried in the outcomes.
func (p *PipelineService) extractAll(ctx context.Context, jobs []job) ([]outcome, error) {
	outcomes := make([]outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.settings.Extract.Workers, 1))

	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := p.extractOne(gctx, j.externalID)
			if err != nil && isCancellation(err) {
				return err
			}
			outcomes[i] = outcome{result: result, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (p *PipelineService) extractOne(ctx context.Context, externalID string) (domain.ExtractedResult, error) {
	logger.Debug("Extracting: %s", externalID)

	content, err := p.corpus.Read(ctx, externalID)
	if err != nil {
		return domain.ExtractedResult{}, &domain.DocumentError{ExternalID: externalID, Err: err}
	}

	result, err := p.extractor.Extract(ctx, externalID, content)
	if err != nil {
		return domain.ExtractedResult{}, &domain.DocumentError{ExternalID: externalID, Err: err}
	}
	return result, nil
}

func (p *PipelineService) saveRun(ctx context.Context, record domain.RunRecord, issues []domain.Issue) {
	if p.runStore == nil {
		return
	}
	// Record even when the run was cancelled.
	if err := p.runStore.SaveRun(context.WithoutCancel(ctx), record, issues); err != nil {
		logger.Warn("Failed to record run %s: %v", record.ID, err)
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
