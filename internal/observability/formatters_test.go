package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcus/coldopen/internal/types"
	"github.com/marcus/coldopen/internal/workflow"
)

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.GenerationResult{
		{
			URL:        "https://www.linkedin.com/in/jane",
			Name:       "Jane Doe",
			Opener:     "Hi Jane, saw your talk on edge caching.",
			ScrapeTier: types.TierFull,
			ResearchSnippets: []string{
				"snippet one", "snippet two", "snippet three",
			},
		},
		{
			URL:        "https://www.linkedin.com/in/bob",
			ScrapeTier: types.TierFailed,
			Error:      "Scrape failed: All tiers failed. Please paste profile text manually.",
		},
	}

	p.PrintResults(results)
	output := buf.String()

	assert.Contains(t, output, "GENERATED OPENERS")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "https://www.linkedin.com/in/jane")
	assert.Contains(t, output, "source: full")
	assert.Contains(t, output, "Hi Jane, saw your talk on edge caching.")
	assert.Contains(t, output, "• snippet one")
	assert.Contains(t, output, "• snippet two")
	assert.Contains(t, output, "... and 1 more snippets")
	assert.NotContains(t, output, "snippet three")
	assert.Contains(t, output, "✗ Scrape failed")
}

func TestPrintResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResults(nil)

	assert.Empty(t, buf.String())
}

func TestPrintResults_WrapsLongOpeners(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResults([]types.GenerationResult{
		{
			URL:        "https://www.linkedin.com/in/jane",
			Name:       "Jane Doe",
			Opener:     strings.Repeat("congrats on the launch ", 8),
			ScrapeTier: types.TierPartial,
		},
	})

	// Every full opener word survives wrapping; nothing is truncated away.
	assert.Equal(t, 8, strings.Count(buf.String(), "congrats"))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.NotContains(t, line, "...")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.GenerationResult{
		{URL: "u1", Opener: "a", ScrapeTier: types.TierFull},
		{URL: "u2", Opener: "b", ScrapeTier: types.TierManual},
		{URL: "u3", Error: "boom"},
	}

	p.PrintSummary(results)
	output := buf.String()

	assert.Contains(t, output, "BATCH SUMMARY")
	assert.Contains(t, output, "URLs processed:    3")
	assert.Contains(t, output, "Openers generated: 2 (1 from pasted text)")
	assert.Contains(t, output, "Failed:            1")
}

func TestPrintSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintManualPrompts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintManualPrompts([]workflow.ManualPrompt{
		{URL: "https://www.linkedin.com/in/bob", Reason: "All tiers failed"},
	})
	output := buf.String()

	assert.Contains(t, output, "MANUAL INPUT NEEDED")
	assert.Contains(t, output, "https://www.linkedin.com/in/bob")
	assert.Contains(t, output, "All tiers failed")
}

func TestNotice(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Notice("Maximum 20 URLs per batch")

	assert.Equal(t, "✗ Maximum 20 URLs per batch\n", buf.String())
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{
			name:  "short line untouched",
			in:    "hello world",
			width: 20,
			want:  []string{"hello world"},
		},
		{
			name:  "breaks at word boundary",
			in:    "one two three four",
			width: 9,
			want:  []string{"one two", "three", "four"},
		},
		{
			name:  "splits oversized word",
			in:    "abcdefghij",
			width: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "empty input",
			in:    "   ",
			width: 10,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.in, tt.width))
		})
	}
}
