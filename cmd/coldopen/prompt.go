package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/marcus/coldopen/internal/observability"
	"github.com/marcus/coldopen/internal/workflow"
)

// stdinPrompter collects pasted profile text interactively. Each failed URL
// is shown in turn; the operator ends a paste with a single "." line, or
// ends it immediately to skip that URL. A round where nothing was pasted is
// abandoned so the failed rows publish as they stand.
type stdinPrompter struct {
	in      *bufio.Reader
	out     io.Writer
	printer *observability.Printer
}

func (p *stdinPrompter) PromptManual(ctx context.Context, items []workflow.ManualPrompt) (map[string]string, bool, error) {
	p.printer.PrintManualPrompts(items)
	fmt.Fprintln(p.out, `Paste profile text for each URL and end with "." on its own line ("." alone skips the URL).`)

	texts := map[string]string{}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		fmt.Fprintf(p.out, "\n%s\n> ", item.URL)
		text, err := p.readPaste()
		if err != nil {
			return nil, false, err
		}
		if text != "" {
			texts[item.URL] = text
		}
	}

	if len(texts) == 0 {
		return nil, true, nil
	}
	return texts, false, nil
}

// readPaste reads lines until a lone "." or EOF. Interior blank lines are
// kept so pasted profiles retain their paragraph breaks.
func (p *stdinPrompter) readPaste() (string, error) {
	var lines []string
	for {
		line, err := p.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "." {
			break
		}
		if err == io.EOF {
			if line != "" {
				lines = append(lines, line)
			}
			break
		}
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// skipPrompter abandons every manual round immediately. Used with --no-input
// so unattended runs never block on stdin.
type skipPrompter struct{}

func (skipPrompter) PromptManual(context.Context, []workflow.ManualPrompt) (map[string]string, bool, error) {
	return nil, true, nil
}
