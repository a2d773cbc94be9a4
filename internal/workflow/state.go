// Package workflow implements the batch-to-results reconciliation loop as a
// pure state machine. Transition consumes an Event against the current State
// and returns the next State plus the side effects to perform; the Runner
// interprets those effects against a live generation service and an operator
// prompt. All session state lives in the State value, so at most one request
// is ever in flight per Runner.
package workflow

import (
	"github.com/google/uuid"

	"github.com/marcus/coldopen/internal/types"
)

// Phase identifies where a session sits in the submit/reconcile loop.
type Phase string

const (
	// PhaseIdle accepts a new batch submission.
	PhaseIdle Phase = "idle"
	// PhaseSubmitting has a generation request outstanding.
	PhaseSubmitting Phase = "submitting"
	// PhaseAwaitingManual is blocked on operator input for failed scrapes.
	PhaseAwaitingManual Phase = "awaiting_manual"
	// PhaseDone holds a published result set and accepts a new submission.
	PhaseDone Phase = "done"
)

// ManualPrompt is one failed URL presented for a manual profile override.
type ManualPrompt struct {
	URL    string
	Reason string
}

// State is the complete session state of one reconciliation loop.
type State struct {
	Phase     Phase
	SessionID uuid.UUID

	// URLs is the URL list of the most recent submission, in request order.
	// Resubmissions after manual overrides reuse this list unchanged.
	URLs    []string
	Options types.BatchOptions

	// Overrides maps URL to operator-pasted profile text. It accumulates
	// across manual rounds within a session and resets on a new submission
	// or a skip.
	Overrides map[string]string

	// Pending is the needs-manual subset currently presented to the operator.
	Pending []ManualPrompt

	// Results is the normalized result set of the most recent completed
	// round: exactly one entry per requested URL, in request order.
	Results []types.GenerationResult

	// LastNotice is the most recent operator-facing error message, if any.
	LastNotice string
}

// NewState returns an idle session with no history.
func NewState() State {
	return State{
		Phase:     PhaseIdle,
		Overrides: map[string]string{},
	}
}
