package pipeline

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"chartchat/internal/events"
	"chartchat/internal/llm/client"
	"chartchat/internal/llm/prompt"
	"chartchat/internal/models"
	"chartchat/internal/viz"
)

// RefinerState is the refiner's place in its state machine.
type RefinerState int

const (
	RefinerAttempting RefinerState = iota
	RefinerSucceeded
	RefinerExhausted
)

func (s RefinerState) String() string {
	switch s {
	case RefinerAttempting:
		return "attempting"
	case RefinerSucceeded:
		return "succeeded"
	default:
		return "exhausted"
	}
}

// RefineResult is the terminal outcome of one refinement run.
type RefineResult struct {
	State    RefinerState
	Artifact models.Artifact
	Attempts int
	// Aborted is set when a transport failure ended the run early;
	// LastErr then holds the transport error.
	Aborted bool
	LastErr error
}

// Refiner drives the bounded repair loop: each attempt feeds the prior
// artifact plus the validation failure reasons into a fresh generation
// request, sanitizes and re-validates. Attempts are strictly sequential.
type Refiner struct {
	client      client.Client
	composer    prompt.Composer
	contract    viz.Contract
	maxAttempts int
	log         zerolog.Logger
}

func NewRefiner(c client.Client, composer prompt.Composer, contract viz.Contract, maxAttempts int, log zerolog.Logger) *Refiner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Refiner{client: c, composer: composer, contract: contract, maxAttempts: maxAttempts, log: log}
}

// Run repairs until the first valid artifact or until maxAttempts client
// calls have been made. base carries the schema/sample/instruction; prior
// is the last sanitized (failing) artifact and reasons its failure notes.
func (r *Refiner) Run(ctx context.Context, base models.GenerationRequest, prior string, reasons []string) RefineResult {
	result := RefineResult{State: RefinerAttempting}
	for result.Attempts < r.maxAttempts {
		req := base
		req.PriorArtifact = prior
		req.RepairNotes = reasons

		composed := r.composer.Compose(req)
		result.Attempts++
		r.log.Debug().Int("attempt", result.Attempts).Strs("reasons", reasons).Msg("refinement attempt")
		events.Emit(ctx, events.PipelineStage, events.NewInfo("refinement attempt "+strconv.Itoa(result.Attempts)))

		raw, err := r.client.Complete(ctx, composed.System, composed.User)
		if err != nil {
			var transport *client.TransportError
			if errors.As(err, &transport) {
				result.State = RefinerExhausted
				result.Aborted = true
				result.LastErr = err
				return result
			}
			// Empty response: counts as a failed attempt, retry with a note.
			reasons = []string{"the previous response was empty; return the full code"}
			result.LastErr = err
			continue
		}

		code := viz.Sanitize(raw, r.contract)
		check := viz.Validate(code, r.contract)
		if check.OK {
			result.State = RefinerSucceeded
			result.Artifact = models.Artifact{Code: code, State: models.ArtifactRepaired}
			result.LastErr = nil
			return result
		}
		prior = code
		reasons = check.Reasons
		result.LastErr = &ValidationError{Request: base.Description(), Attempts: result.Attempts, Reasons: check.Reasons}
	}
	result.State = RefinerExhausted
	return result
}
