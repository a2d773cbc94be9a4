package workflow

import "github.com/marcus/coldopen/internal/types"

// Event is an input to the state machine.
type Event interface {
	// Name identifies the event in logs and errors.
	Name() string
}

// EventSubmit starts a fresh session from raw multi-line URL input.
type EventSubmit struct {
	Raw     string
	Options types.BatchOptions
}

func (EventSubmit) Name() string { return "submit" }

// EventResponse delivers the service's per-URL results for the outstanding
// request.
type EventResponse struct {
	Results []types.GenerationResult
}

func (EventResponse) Name() string { return "response" }

// EventRequestFailed reports that the outstanding request never produced a
// result set (network failure or non-2xx reply).
type EventRequestFailed struct {
	Err error
}

func (EventRequestFailed) Name() string { return "request_failed" }

// EventSupplyOverrides delivers operator-pasted profile text keyed by URL.
// Empty values are ignored, leaving those URLs unresolved.
type EventSupplyOverrides struct {
	Texts map[string]string
}

func (EventSupplyOverrides) Name() string { return "supply_overrides" }

// EventSkip abandons the manual-override round and publishes the results as
// they stand.
type EventSkip struct{}

func (EventSkip) Name() string { return "skip" }
