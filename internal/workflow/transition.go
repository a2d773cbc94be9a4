package workflow

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/marcus/coldopen/internal/batch"
	"github.com/marcus/coldopen/internal/client"
	"github.com/marcus/coldopen/internal/types"
)

// InvalidEventError is returned when an event arrives in a phase that does
// not accept it. The state is left unchanged.
type InvalidEventError struct {
	Phase Phase
	Event string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("event %q is not valid in phase %q", e.Event, e.Phase)
}

// Transition applies one event to the session and returns the next state
// plus the effects the caller must perform. It never does I/O and never
// mutates its input.
func Transition(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case EventSubmit:
		return transitionSubmit(s, ev)
	case EventResponse:
		return transitionResponse(s, ev)
	case EventRequestFailed:
		return transitionRequestFailed(s, ev)
	case EventSupplyOverrides:
		return transitionSupplyOverrides(s, ev)
	case EventSkip:
		return transitionSkip(s, ev)
	default:
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}
}

// transitionSubmit starts a fresh session. Overrides from any previous
// session are discarded so stale pasted text cannot leak into a new batch.
func transitionSubmit(s State, ev EventSubmit) (State, []Effect, error) {
	if s.Phase != PhaseIdle && s.Phase != PhaseDone {
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}

	urls := batch.SplitURLs(ev.Raw)
	overrides := map[string]string{}
	req, err := batch.NewRequest(urls, ev.Options, overrides)
	if err != nil {
		// Validation failures block submission without touching the session.
		return s, nil, err
	}

	next := s
	next.Phase = PhaseSubmitting
	next.SessionID = uuid.New()
	next.URLs = urls
	next.Options = ev.Options.WithDefaults()
	next.Overrides = overrides
	next.Pending = nil
	next.LastNotice = ""
	return next, []Effect{EffectSendRequest{Request: req}}, nil
}

// transitionResponse reconciles the service reply against the requested URL
// list, then either prompts for manual overrides or publishes.
func transitionResponse(s State, ev EventResponse) (State, []Effect, error) {
	if s.Phase != PhaseSubmitting {
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}

	results := normalizeResults(s.URLs, ev.Results)
	pending := pendingPrompts(results, s.Overrides)

	next := s
	next.Results = results

	if len(pending) > 0 {
		next.Phase = PhaseAwaitingManual
		next.Pending = pending
		return next, []Effect{EffectPromptManual{Items: pending}}, nil
	}

	next.Phase = PhaseDone
	next.Pending = nil
	return next, []Effect{EffectPublishResults{Results: results}}, nil
}

// transitionRequestFailed returns the session to idle with the previous
// result set intact.
func transitionRequestFailed(s State, ev EventRequestFailed) (State, []Effect, error) {
	if s.Phase != PhaseSubmitting {
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}

	next := s
	next.Phase = PhaseIdle
	next.Pending = nil
	next.LastNotice = noticeForError(ev.Err)
	return next, []Effect{EffectReportError{Message: next.LastNotice}}, nil
}

// transitionSupplyOverrides records pasted profile text and re-runs the full
// original URL list. URLs whose text was left empty stay unresolved, so a
// round that supplies nothing simply comes back around.
func transitionSupplyOverrides(s State, ev EventSupplyOverrides) (State, []Effect, error) {
	if s.Phase != PhaseAwaitingManual {
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}

	overrides := maps.Clone(s.Overrides)
	if overrides == nil {
		overrides = map[string]string{}
	}
	for url, text := range ev.Texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		overrides[url] = text
	}

	req, err := batch.NewRequest(s.URLs, s.Options, overrides)
	if err != nil {
		// The URL list was validated on submission, so this is unreachable
		// short of a corrupted state value.
		return s, nil, err
	}

	next := s
	next.Phase = PhaseSubmitting
	next.Overrides = overrides
	next.Pending = nil
	next.LastNotice = ""
	return next, []Effect{EffectSendRequest{Request: req}}, nil
}

// transitionSkip finalizes the round as it stands: every row of the round,
// including still-failed ones, is published and no further request is sent.
func transitionSkip(s State, ev EventSkip) (State, []Effect, error) {
	if s.Phase != PhaseAwaitingManual {
		return s, nil, &InvalidEventError{Phase: s.Phase, Event: ev.Name()}
	}

	next := s
	next.Phase = PhaseDone
	next.Pending = nil
	next.Overrides = map[string]string{}
	return next, []Effect{EffectPublishResults{Results: next.Results}}, nil
}

// normalizeResults maps a service reply onto the requested URL list: exactly
// one entry per requested URL, in request order. Responses are keyed by URL
// because reply order is not guaranteed; duplicate URLs in the reply collapse
// to the last entry, and URLs the reply omitted get a synthesized failed row.
func normalizeResults(urls []string, got []types.GenerationResult) []types.GenerationResult {
	byURL := make(map[string]types.GenerationResult, len(got))
	for _, r := range got {
		byURL[r.URL] = r
	}

	results := make([]types.GenerationResult, 0, len(urls))
	for _, url := range urls {
		if r, ok := byURL[url]; ok {
			results = append(results, r)
			continue
		}
		results = append(results, types.GenerationResult{
			URL:        url,
			ScrapeTier: types.TierFailed,
			Error:      "No result returned for this URL.",
		})
	}
	return results
}

// pendingPrompts selects the failed rows that still lack an override, one
// prompt per URL.
func pendingPrompts(results []types.GenerationResult, overrides map[string]string) []ManualPrompt {
	var pending []ManualPrompt
	seen := map[string]bool{}
	for _, r := range results {
		if !r.NeedsManual(overrides) || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		pending = append(pending, ManualPrompt{URL: r.URL, Reason: r.Error})
	}
	return pending
}

// noticeForError converts a request failure into the operator-facing message.
func noticeForError(err error) string {
	var svcErr *client.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Detail
	}
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return "Network error: could not reach the generation service."
	}
	return fmt.Sprintf("Request failed: %v", err)
}
