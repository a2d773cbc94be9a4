package workflow

import "github.com/marcus/coldopen/internal/types"

// Effect is a side effect the caller must perform after a transition. The
// machine itself never does I/O.
type Effect interface {
	// Name identifies the effect in logs.
	Name() string
}

// EffectSendRequest asks the caller to POST the request to the generation
// service. Emitted exactly once per entry into PhaseSubmitting.
type EffectSendRequest struct {
	Request types.GenerationRequest
}

func (EffectSendRequest) Name() string { return "send_request" }

// EffectPromptManual asks the caller to collect manual profile text for the
// listed URLs.
type EffectPromptManual struct {
	Items []ManualPrompt
}

func (EffectPromptManual) Name() string { return "prompt_manual" }

// EffectPublishResults asks the caller to present the final result set.
// Emitted exactly once per completed round.
type EffectPublishResults struct {
	Results []types.GenerationResult
}

func (EffectPublishResults) Name() string { return "publish_results" }

// EffectReportError asks the caller to surface an operator-facing notice.
type EffectReportError struct {
	Message string
}

func (EffectReportError) Name() string { return "report_error" }
