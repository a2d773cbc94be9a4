// Package opener turns scraped profile data and research findings into a
// single personalized outreach opening line.
package opener

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcus/coldopen/internal/llm"
	"github.com/marcus/coldopen/internal/profile"
	"github.com/marcus/coldopen/internal/prompts"
	"github.com/marcus/coldopen/internal/research"
	"github.com/marcus/coldopen/internal/types"
)

// Sampling settings for opener generation. Openers want variety, so the
// temperature runs hot. The token cap sits well above any usable character
// limit.
const (
	openerTemperature = 0.8
	openerMaxTokens   = 400
)

// maxSnippetsPerSource caps how many snippets one research query contributes
// to the prompt.
const maxSnippetsPerSource = 3

// Generator produces openers through an LLM client.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate writes one opener for the prospect, enforcing the character limit
// from the batch options on whatever the model returns.
func (g *Generator) Generate(ctx context.Context, prof profile.Data, findings []research.Result, opts types.BatchOptions) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("no LLM client configured")
	}

	system := prompts.MustGet("opener.json", "system")
	user := buildUserPrompt(prof, findings, opts)

	raw, err := g.client.Complete(ctx, system, user, llm.Options{
		Temperature: openerTemperature,
		MaxTokens:   openerMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("opener generation failed: %w", err)
	}

	return EnforceCharLimit(llm.CleanCodeBlock(raw), opts.CharLimit), nil
}

// buildUserPrompt lays out profile facts, research findings, and the
// formatting constraints in the order the system prompt expects. Research
// snippets are numbered continuously across sources.
func buildUserPrompt(prof profile.Data, findings []research.Result, opts types.BatchOptions) string {
	parts := []string{fmt.Sprintf("PROSPECT PROFILE:\n- Name: %s", prof.Name)}
	if prof.Headline != "" {
		parts = append(parts, "- Headline: "+prof.Headline)
	}
	if prof.Summary != "" {
		parts = append(parts, "- Summary: "+prof.Summary)
	}
	if prof.Experience != "" {
		parts = append(parts, "- Experience: "+prof.Experience)
	}
	if prof.Education != "" {
		parts = append(parts, "- Education: "+prof.Education)
	}
	if prof.Skills != "" {
		parts = append(parts, "- Skills: "+prof.Skills)
	}

	if hasSnippets(findings) {
		parts = append(parts, "\nWEB RESEARCH FINDINGS:")
		idx := 1
		for _, r := range findings {
			if len(r.Snippets) == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("\n[Source: %s]", r.Query))
			for i, snippet := range r.Snippets {
				if i >= maxSnippetsPerSource {
					break
				}
				parts = append(parts, fmt.Sprintf("%d. %s", idx, snippet))
				idx++
			}
		}
	}

	parts = append(parts, fmt.Sprintf("\nTONE: %s", opts.Tone))
	parts = append(parts, fmt.Sprintf("MAX CHARACTERS: %d", opts.CharLimit))
	if opts.MustInclude != "" {
		parts = append(parts, "MUST INCLUDE: "+opts.MustInclude)
	}
	parts = append(parts, "\n"+prompts.MustGet("opener.json", "closing"))

	return strings.Join(parts, "\n")
}

func hasSnippets(findings []research.Result) bool {
	for _, r := range findings {
		if len(r.Snippets) > 0 {
			return true
		}
	}
	return false
}
