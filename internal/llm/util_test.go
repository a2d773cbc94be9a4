package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCodeBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare text untouched",
			input: "Loved your talk at SaaStr.",
			want:  "Loved your talk at SaaStr.",
		},
		{
			name:  "plain fence",
			input: "```\nLoved your talk at SaaStr.\n```",
			want:  "Loved your talk at SaaStr.",
		},
		{
			name:  "fence with language line",
			input: "```text\nLoved your talk at SaaStr.\n```",
			want:  "Loved your talk at SaaStr.",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```\nhello\n```\n  ",
			want:  "hello",
		},
		{
			name:  "fenced first line that is prose stays",
			input: "```a long first line with spaces\nrest\n```",
			want:  "a long first line with spaces\nrest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCodeBlock(tt.input))
		})
	}
}
