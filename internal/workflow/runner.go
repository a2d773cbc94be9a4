package workflow

import (
	"context"
	"log"

	"github.com/marcus/coldopen/internal/types"
)

// Generator submits a generation request and returns per-URL results. It is
// satisfied by *client.Client.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) ([]types.GenerationResult, error)
}

// Prompter collects manual profile text for failed URLs. Implementations
// return pasted text keyed by URL, or skip=true to abandon the round and
// publish the results as they stand.
type Prompter interface {
	PromptManual(ctx context.Context, items []ManualPrompt) (texts map[string]string, skip bool, err error)
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Generator Generator
	Prompter  Prompter

	// OnPublish receives the final result set of each completed round.
	OnPublish func(results []types.GenerationResult)
	// OnNotice receives operator-facing error messages.
	OnNotice func(message string)
}

// Runner owns a session State and interprets the machine's effects against
// a live generation service and an operator prompt. It runs one round at a
// time on the calling goroutine and is not safe for concurrent use; the
// machine itself rejects out-of-phase events regardless.
type Runner struct {
	state State
	opts  RunnerOptions
}

// NewRunner creates a Runner starting from an idle session.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		state: NewState(),
		opts:  opts,
	}
}

// State returns the current session state.
func (r *Runner) State() State {
	return r.state
}

// Submit runs one full round: build the request, send it, reconcile the
// response, and loop through manual-override rounds until the session
// settles in done (results published) or idle (request failed). Builder
// validation errors are returned without touching the session.
func (r *Runner) Submit(ctx context.Context, raw string, opts types.BatchOptions) (State, error) {
	effects, err := r.apply(EventSubmit{Raw: raw, Options: opts})
	if err != nil {
		return r.state, err
	}
	if err := r.interpret(ctx, effects); err != nil {
		return r.state, err
	}
	return r.state, nil
}

// interpret performs effects in order, feeding their outcomes back into the
// machine until none remain.
func (r *Runner) interpret(ctx context.Context, effects []Effect) error {
	for len(effects) > 0 {
		effect := effects[0]
		effects = effects[1:]

		switch eff := effect.(type) {
		case EffectSendRequest:
			log.Printf("[WORKFLOW] Sending generation request for %d URLs", len(eff.Request.URLs))
			var ev Event
			results, err := r.opts.Generator.Generate(ctx, eff.Request)
			if err != nil {
				ev = EventRequestFailed{Err: err}
			} else {
				ev = EventResponse{Results: results}
			}
			more, err := r.apply(ev)
			if err != nil {
				return err
			}
			effects = append(effects, more...)

		case EffectPromptManual:
			log.Printf("[WORKFLOW] %d URLs need manual profile text", len(eff.Items))
			texts, skip, err := r.opts.Prompter.PromptManual(ctx, eff.Items)
			if err != nil {
				return err
			}
			var ev Event = EventSupplyOverrides{Texts: texts}
			if skip {
				ev = EventSkip{}
			}
			more, err := r.apply(ev)
			if err != nil {
				return err
			}
			effects = append(effects, more...)

		case EffectPublishResults:
			if r.opts.OnPublish != nil {
				r.opts.OnPublish(eff.Results)
			}

		case EffectReportError:
			log.Printf("[WORKFLOW] Request failed: %s", eff.Message)
			if r.opts.OnNotice != nil {
				r.opts.OnNotice(eff.Message)
			}
		}
	}
	return nil
}

// apply advances the machine one event and returns the follow-on effects.
func (r *Runner) apply(ev Event) ([]Effect, error) {
	next, effects, err := Transition(r.state, ev)
	if err != nil {
		return nil, err
	}
	r.state = next
	return effects, nil
}
