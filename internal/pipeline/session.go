// Package pipeline implements the generate -> sanitize -> validate ->
// refine -> fallback flow and the bounded workflow history it feeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"chartchat/internal/events"
	"chartchat/internal/llm/client"
	"chartchat/internal/llm/prompt"
	"chartchat/internal/models"
	"chartchat/internal/viz"
)

// Options are the externally injected knobs a session depends on.
type Options struct {
	MaxAttempts     int
	HistoryCapacity int
	SampleCap       int
	SampleDetail    int
	EntryPoint      string
}

// Report is the outcome of one Generate call. Entry is always populated:
// the pipeline never surfaces "no artifact". Failure records the terminal
// error that forced the fallback, nil when no fallback was needed.
type Report struct {
	Entry    models.HistoryEntry
	Attempts int
	Failure  error
}

// Session owns all mutable workflow state: the history log and the
// current-artifact pointer. It is passed explicitly through the pipeline
// stages; there are no ambient globals. Single-writer discipline: callers
// must serialize Generate/Revert through one event-processing path.
type Session struct {
	name       string
	dataset    models.Dataset
	client     client.Client
	contract   viz.Contract
	composer   prompt.Composer
	refiner    *Refiner
	opts       Options
	history    *History
	currentSeq uint64
	log        zerolog.Logger
}

func NewSession(name string, dataset models.Dataset, c client.Client, opts Options, log zerolog.Logger) (*Session, error) {
	if dataset == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if c == nil {
		return nil, fmt.Errorf("generation client is required")
	}
	if opts.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1, got %d", opts.MaxAttempts)
	}
	if opts.HistoryCapacity < 1 {
		return nil, fmt.Errorf("history capacity must be >= 1, got %d", opts.HistoryCapacity)
	}
	if opts.SampleCap < 1 {
		return nil, fmt.Errorf("sample cap must be >= 1, got %d", opts.SampleCap)
	}
	contract := viz.DefaultContract(opts.EntryPoint)
	composer := prompt.NewComposer(contract, opts.SampleCap, opts.SampleDetail)
	sessionLog := log.With().Str("session", name).Logger()
	return &Session{
		name:     name,
		dataset:  dataset,
		client:   c,
		contract: contract,
		composer: composer,
		refiner:  NewRefiner(c, composer, contract, opts.MaxAttempts, sessionLog),
		opts:     opts,
		history:  NewHistory(opts.HistoryCapacity),
		log:      sessionLog,
	}, nil
}

func (s *Session) Name() string {
	return s.name
}

// Generate runs the full pipeline for one instruction (empty means the
// initial visualization) and appends the outcome to the history. Exactly
// one entry is appended per call; intermediate refinement attempts are
// never persisted.
func (s *Session) Generate(ctx context.Context, instruction string) (Report, error) {
	ctx = events.WithSession(ctx, s.name)
	req := models.GenerationRequest{
		Schema:      s.dataset.Schema(),
		Sample:      s.dataset.Sample(s.opts.SampleCap),
		Instruction: instruction,
	}
	if instruction != "" {
		if current, ok := s.Current(); ok {
			req.PriorArtifact = current.Artifact.Code
		}
	}

	outcome, err := s.produce(ctx, req)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Attempts: outcome.attempts,
		Failure:  outcome.failure,
		Entry:    s.history.Append(req.Description(), outcome.artifact),
	}
	s.currentSeq = report.Entry.Seq

	s.log.Info().
		Uint64("seq", report.Entry.Seq).
		Str("state", string(outcome.artifact.State)).
		Int("attempts", outcome.attempts).
		Msg("artifact recorded")
	events.Emit(ctx, events.PipelineDone, events.NewSuccess(
		fmt.Sprintf("artifact %d recorded (%s)", report.Entry.Seq, outcome.artifact.State)))
	return report, nil
}

// produceOutcome carries the artifact plus the refinement bookkeeping the
// report exposes. failure is the terminal error that forced a fallback.
type produceOutcome struct {
	artifact models.Artifact
	attempts int
	failure  error
}

// produce yields the artifact for a request, falling back when the
// backend is unreachable or refinement is exhausted. The only returned
// error is the fallback invariant violation, which is fatal.
func (s *Session) produce(ctx context.Context, req models.GenerationRequest) (produceOutcome, error) {
	composed := s.composer.Compose(req)
	events.Emit(ctx, events.PipelineStage, events.NewInfo("generation started: "+req.Description()))

	raw, err := s.client.Complete(ctx, composed.System, composed.User)
	if err != nil {
		var transport *client.TransportError
		if errors.As(err, &transport) {
			// Backend instability: do not burn refinement attempts.
			s.log.Warn().Err(err).Msg("transport failure, using fallback")
			events.Emit(ctx, events.PipelineStage, events.NewWarn("backend unreachable, using fallback"))
			fallback, fbErr := s.fallback(req)
			return produceOutcome{artifact: fallback, failure: err}, fbErr
		}
		// Empty response enters the refiner like any validation failure.
		return s.refine(ctx, req, "", []string{"the previous response was empty; return the full code"})
	}

	code := viz.Sanitize(raw, s.contract)
	check := viz.Validate(code, s.contract)
	if check.OK {
		return produceOutcome{artifact: models.Artifact{Code: code, State: models.ArtifactValid}}, nil
	}
	s.log.Debug().Strs("reasons", check.Reasons).Msg("initial artifact failed validation")
	return s.refine(ctx, req, code, check.Reasons)
}

func (s *Session) refine(ctx context.Context, req models.GenerationRequest, prior string, reasons []string) (produceOutcome, error) {
	result := s.refiner.Run(ctx, req, prior, reasons)
	if result.State == RefinerSucceeded {
		return produceOutcome{artifact: result.Artifact, attempts: result.Attempts}, nil
	}

	failure := result.LastErr
	if failure == nil {
		failure = &ValidationError{Request: req.Description(), Attempts: result.Attempts, Reasons: reasons}
	}
	if result.Aborted {
		events.Emit(ctx, events.PipelineStage, events.NewWarn("refinement aborted by transport failure, using fallback"))
	} else {
		events.Emit(ctx, events.PipelineStage, events.NewWarn("refinement exhausted, using fallback"))
	}
	fallback, fbErr := s.fallback(req)
	return produceOutcome{artifact: fallback, attempts: result.Attempts, failure: failure}, fbErr
}

// fallback emits the deterministic schema-only artifact and asserts the
// contract invariant that it validates. A violation here is a bug in this
// codebase and is surfaced, never swallowed.
func (s *Session) fallback(req models.GenerationRequest) (models.Artifact, error) {
	code := viz.FallbackArtifact(req.Schema, s.contract)
	if check := viz.Validate(code, s.contract); !check.OK {
		return models.Artifact{}, &FallbackInvariantError{Request: req.Description(), Reasons: check.Reasons}
	}
	return models.Artifact{Code: code, State: models.ArtifactFallback}, nil
}

// Revert resolves a stored artifact by its stable sequence number and
// resets the current-artifact pointer to it. The log itself is not
// mutated: later entries survive and repeated reverts are idempotent.
func (s *Session) Revert(seq uint64) (models.Artifact, error) {
	entry, ok := s.history.Get(seq)
	if !ok {
		oldest, newest := s.history.Bounds()
		return models.Artifact{}, &InvalidReferenceError{Seq: seq, Oldest: oldest, Newest: newest}
	}
	s.currentSeq = entry.Seq
	s.log.Info().Uint64("seq", seq).Msg("reverted current artifact")
	return entry.Artifact, nil
}

// Current returns the entry the current-artifact pointer designates.
func (s *Session) Current() (models.HistoryEntry, bool) {
	if s.currentSeq == 0 {
		return models.HistoryEntry{}, false
	}
	return s.history.Get(s.currentSeq)
}

func (s *Session) CurrentSeq() uint64 {
	return s.currentSeq
}

// History returns a copy of the live log, oldest first.
func (s *Session) History() []models.HistoryEntry {
	return s.history.Entries()
}

// Restore loads previously persisted history and pointer, clamping the
// pointer to the newest entry when it no longer resolves.
func (s *Session) Restore(entries []models.HistoryEntry, currentSeq uint64) {
	s.history.Restore(entries)
	if _, ok := s.history.Get(currentSeq); ok {
		s.currentSeq = currentSeq
		return
	}
	_, newest := s.history.Bounds()
	s.currentSeq = newest
}
