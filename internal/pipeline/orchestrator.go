// Package pipeline orchestrates batch enrichment: claim a record, extract,
// resolve, classify, persist. Every record is processed at most once per
// run; the state store arbitrates concurrent claims.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adurasov/nutricode/internal/extraction"
	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
	"github.com/adurasov/nutricode/internal/resolve"
	"github.com/adurasov/nutricode/internal/rules"
	"github.com/adurasov/nutricode/internal/state"
	"github.com/adurasov/nutricode/internal/worker"
)

// Orchestrator wires the per-record flow and runs it across the pool.
type Orchestrator struct {
	provider  extraction.Provider
	resolver  *resolve.Resolver
	finalizer *rules.Finalizer
	store     state.Store
	limiter   *worker.Limiter
	retry     *worker.RetryPolicy
	rules     refdata.RuleSet
	workers   int
	log       *zap.Logger
}

// Options bundles the orchestrator's collaborators.
type Options struct {
	Provider  extraction.Provider
	Resolver  *resolve.Resolver
	Finalizer *rules.Finalizer
	Store     state.Store
	Rules     refdata.RuleSet
	Config    *model.Config
	Logger    *zap.Logger
}

// NewOrchestrator assembles the orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		provider:  opts.Provider,
		resolver:  opts.Resolver,
		finalizer: opts.Finalizer,
		store:     opts.Store,
		limiter:   worker.NewLimiter(opts.Config.Extraction.RequestsPerSecond, opts.Config.Extraction.Burst),
		retry:     worker.NewRetryPolicy(opts.Config.Retry),
		rules:     opts.Rules,
		workers:   opts.Config.Concurrency.Workers,
		log:       log,
	}
}

// NewRunID mints a run identifier.
func NewRunID() string { return uuid.NewString() }

// Outcome is the per-record result of one orchestration pass.
type Outcome struct {
	Record  model.Record
	Status  model.Status
	Skipped bool
	Audit   model.Audit
	Err     error
}

// GetError implements worker.Result.
func (o *Outcome) GetError() error { return o.Err }

type enrichJob struct {
	orch   *Orchestrator
	ctx    context.Context // run-scoped; cancelling it stops new claims
	runID  string
	record model.Record
}

func (j *enrichJob) Execute(_ context.Context) worker.Result {
	return j.orch.processRecord(j.ctx, j.runID, j.record)
}

// Run processes a batch under one run ID. Every record is seeded PENDING
// before the workers start. Cancelling ctx stops new claims; records
// already claimed finish and persist their outcome.
func (o *Orchestrator) Run(ctx context.Context, runID string, records []model.Record) *RunReport {
	started := time.Now().UTC()
	o.log.Info("run started",
		zap.String("run_id", runID),
		zap.Int("records", len(records)),
		zap.Int("workers", o.workers))

	for _, rec := range records {
		seed := &model.RecordState{RecordID: rec.ID, RunID: runID, Status: model.StatusPending}
		if err := o.store.PutIfAbsent(ctx, seed); err != nil && !errors.Is(err, state.ErrAlreadyClaimed) {
			o.log.Warn("seed record state", zap.String("record_id", rec.ID), zap.Error(err))
		}
	}

	pool := worker.NewPool(o.workers)
	pool.Start()
	for _, rec := range records {
		pool.Submit(&enrichJob{orch: o, ctx: ctx, runID: runID, record: rec})
	}

	var outcomes []*Outcome
	for _, res := range pool.Wait() {
		outcomes = append(outcomes, res.(*Outcome))
	}

	report := buildReport(runID, started, outcomes)
	o.log.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("success", report.Summary.Success),
		zap.Int("filtered", report.Summary.Filtered),
		zap.Int("errors", report.Summary.Errors),
		zap.Int("skipped", report.Skipped),
		zap.Duration("elapsed", report.Elapsed))
	return report
}

// processRecord runs the full flow for one record. Terminal state is
// written exactly once; a lost claim race means another worker owns the
// record and this pass skips it.
func (o *Orchestrator) processRecord(ctx context.Context, runID string, rec model.Record) *Outcome {
	out := &Outcome{
		Record: rec,
		Audit:  model.Audit{RecordID: rec.ID, RunID: runID, Title: rec.Title},
	}

	if err := ctx.Err(); err != nil {
		out.Skipped = true
		return out
	}

	if err := o.store.ClaimPending(ctx, runID, rec.ID); err != nil {
		if errors.Is(err, state.ErrAlreadyClaimed) {
			out.Skipped = true
			o.log.Debug("record already claimed", zap.String("record_id", rec.ID))
			return out
		}
		out.Err = fmt.Errorf("claim record %s: %w", rec.ID, err)
		return out
	}

	// The claim is the only gate an abort closes. From here the record
	// runs to completion detached from the abort signal, so it never ends
	// the run half-processed.
	ctx = context.WithoutCancel(ctx)

	// Out-of-scope titles are filtered before any network call.
	if reason := filterReason(rec.Title, o.rules.FilterKeywords); reason != "" {
		return o.finishFiltered(ctx, runID, rec, out, "filter keyword: "+reason, 0)
	}

	ext, attempts, err := o.extract(ctx, rec)
	if err != nil {
		return o.persistError(ctx, runID, rec, out, attempts, fmt.Errorf("extract: %w", err))
	}

	if len(ext.Mentions) == 0 {
		return o.finishFiltered(ctx, runID, rec, out, "no ingredient mentions", attempts)
	}

	resolved := make([]model.ResolvedIngredient, 0, len(ext.Mentions))
	for _, mention := range ext.Mentions {
		resolved = append(resolved, o.resolver.Resolve(rec.Title, mention))
	}
	out.Audit.Resolved = resolved

	demo := rules.Demographics{
		AgeGroup: ext.Attributes.AgeGroup.Value,
		Gender:   ext.Attributes.Gender.Value,
	}
	result, err := o.finalizer.Finalize(resolved, demo, rec.Title, ext.Attributes)
	if err != nil {
		if errors.Is(err, rules.ErrNoIngredients) {
			return o.finishFiltered(ctx, runID, rec, out, "no usable ingredients", attempts)
		}
		return o.persistError(ctx, runID, rec, out, attempts, fmt.Errorf("finalize: %w", err))
	}

	st := &model.RecordState{
		RecordID:     rec.ID,
		RunID:        runID,
		Status:       model.StatusSuccess,
		Result:       result,
		AttemptCount: attempts,
	}
	if err := o.store.UpdateIfProcessing(ctx, st); err != nil {
		out.Err = fmt.Errorf("persist result for %s: %w", rec.ID, err)
		return out
	}

	out.Status = model.StatusSuccess
	out.Audit.Result = result
	out.Audit.CombosApplied = result.CombosApplied
	o.log.Debug("record enriched",
		zap.String("record_id", rec.ID),
		zap.String("category", result.Classification.FinalCategory),
		zap.String("tier", string(result.Tier)))
	return out
}

// extract calls the provider under the shared rate limit, retrying
// transient failures with backoff. The number of attempts actually made
// is returned for the persisted state.
func (o *Orchestrator) extract(ctx context.Context, rec model.Record) (*model.Extraction, int, error) {
	var ext *model.Extraction
	attempts := 0
	err := o.retry.Do(ctx, func(ctx context.Context) error {
		attempts++
		if err := o.limiter.Wait(ctx, o.provider.Name()); err != nil {
			return err
		}
		var err error
		ext, err = o.provider.Extract(ctx, extraction.Request{
			Title:       rec.Title,
			Brand:       rec.Brand,
			RawCategory: rec.RawCategory,
		})
		return err
	}, extraction.IsRetryable)
	return ext, attempts, err
}

// finishFiltered transitions a claimed record into FILTERED.
func (o *Orchestrator) finishFiltered(ctx context.Context, runID string, rec model.Record, out *Outcome, reason string, attempts int) *Outcome {
	st := filteredState(rec.ID, runID, reason)
	st.AttemptCount = attempts
	if err := o.store.UpdateIfProcessing(ctx, st); err != nil {
		out.Err = fmt.Errorf("persist filtered %s: %w", rec.ID, err)
		return out
	}
	out.Status = model.StatusFiltered
	out.Audit.FilterReason = reason
	out.Audit.Result = st.Result
	return out
}

func (o *Orchestrator) persistError(ctx context.Context, runID string, rec model.Record, out *Outcome, attempts int, cause error) *Outcome {
	st := &model.RecordState{
		RecordID:     rec.ID,
		RunID:        runID,
		Status:       model.StatusError,
		AttemptCount: attempts,
		Error:        cause.Error(),
	}
	if err := o.store.UpdateIfProcessing(ctx, st); err != nil {
		out.Err = errors.Join(cause, fmt.Errorf("persist error for %s: %w", rec.ID, err))
		return out
	}
	out.Status = model.StatusError
	out.Audit.Error = cause.Error()
	out.Err = cause
	o.log.Warn("record failed", zap.String("record_id", rec.ID), zap.Error(cause))
	return out
}

// filteredState builds the terminal entry for a filtered record. Filtered
// records carry the remove tier so downstream consumers drop them.
func filteredState(recordID, runID, reason string) *model.RecordState {
	return &model.RecordState{
		RecordID: recordID,
		RunID:    runID,
		Status:   model.StatusFiltered,
		Result:   &model.FinalResult{Tier: model.TierRemove},
		Error:    reason,
	}
}
