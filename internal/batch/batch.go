// Package batch builds generation requests from raw operator input.
package batch

import (
	"fmt"
	"strings"

	"github.com/marcus/coldopen/internal/types"
)

// MaxBatchSize is the most profile URLs a single generation request may carry.
const MaxBatchSize = 10

// EmptyBatchError indicates that no URLs remained after splitting and trimming.
type EmptyBatchError struct{}

func (e *EmptyBatchError) Error() string {
	return "batch contains no URLs"
}

// BatchTooLargeError indicates the batch exceeds the per-request URL cap.
type BatchTooLargeError struct {
	Count int
	Max   int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch has %d URLs, maximum is %d", e.Count, e.Max)
}

// SplitURLs splits raw multi-line input into one URL per line, trimming
// surrounding whitespace and dropping blank lines. URL syntax is not checked
// here; the service reports per-URL failures instead.
func SplitURLs(raw string) []string {
	lines := strings.Split(raw, "\n")
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		urls = append(urls, trimmed)
	}
	return urls
}

// NewRequest assembles a GenerationRequest from an already-split URL list.
// Options receive their documented defaults. The override map passes through
// untouched so accumulated manual profiles survive resubmission.
func NewRequest(urls []string, opts types.BatchOptions, overrides map[string]string) (types.GenerationRequest, error) {
	if len(urls) == 0 {
		return types.GenerationRequest{}, &EmptyBatchError{}
	}
	if len(urls) > MaxBatchSize {
		return types.GenerationRequest{}, &BatchTooLargeError{Count: len(urls), Max: MaxBatchSize}
	}

	opts = opts.WithDefaults()
	return types.GenerationRequest{
		URLs:           urls,
		MustInclude:    opts.MustInclude,
		CharLimit:      opts.CharLimit,
		Tone:           opts.Tone,
		ResearchDepth:  opts.ResearchDepth,
		ManualProfiles: overrides,
	}, nil
}

// Build splits raw input and assembles the request in one step.
func Build(raw string, opts types.BatchOptions, overrides map[string]string) (types.GenerationRequest, error) {
	return NewRequest(SplitURLs(raw), opts, overrides)
}
