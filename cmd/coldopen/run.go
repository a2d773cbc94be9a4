package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/coldopen/internal/client"
	"github.com/marcus/coldopen/internal/export"
	"github.com/marcus/coldopen/internal/observability"
	"github.com/marcus/coldopen/internal/types"
	"github.com/marcus/coldopen/internal/workflow"
)

var runCommand = &cobra.Command{
	Use:   "run [urls...]",
	Short: "Generate openers for a batch of profile URLs",
	Long: `Submits profile URLs to a running generation service, prompts for pasted
profile text when scraping fails, and saves the finished openers as CSV.

URLs come from the arguments and from --file (one per line; blank lines and
# comments are ignored).`,
	RunE: runBatchCmd,
}

var (
	runFile          string
	runTone          string
	runCharLimit     int
	runResearchDepth string
	runMustInclude   string
	runServerURL     string
	runOut           string
	runNoInput       bool
)

func init() {
	runCommand.Flags().StringVarP(&runFile, "file", "f", "", "Path to a file of profile URLs, one per line")
	runCommand.Flags().StringVar(&runTone, "tone", types.DefaultTone, "Opener tone (professional, casual, direct, warm)")
	runCommand.Flags().IntVar(&runCharLimit, "char-limit", types.DefaultCharLimit, "Maximum opener length in characters (50-1000)")
	runCommand.Flags().StringVar(&runResearchDepth, "research-depth", types.DefaultResearchDepth, "Web research depth: light, medium, or deep")
	runCommand.Flags().StringVar(&runMustInclude, "must-include", "", "Phrase every opener must work in")
	runCommand.Flags().StringVar(&runServerURL, "server", "http://localhost:8080", "Base URL of the generation service")
	runCommand.Flags().StringVarP(&runOut, "out", "o", export.DefaultFileName, "Path for the CSV export")
	runCommand.Flags().BoolVar(&runNoInput, "no-input", false, "Never prompt for manual profile text; publish failures as-is")

	rootCmd.AddCommand(runCommand)
}

func runBatchCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	raw, err := collectURLs(args, runFile)
	if err != nil {
		return err
	}
	if raw == "" {
		return fmt.Errorf("no URLs given; pass them as arguments or with --file")
	}

	printer := observability.NewPrinter(os.Stdout)

	var prompter workflow.Prompter = &stdinPrompter{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		printer: printer,
	}
	if runNoInput {
		prompter = skipPrompter{}
	}

	var published []types.GenerationResult
	runner := workflow.NewRunner(workflow.RunnerOptions{
		Generator: client.New(runServerURL),
		Prompter:  prompter,
		OnPublish: func(results []types.GenerationResult) {
			published = results
			printer.PrintResults(results)
			printer.PrintSummary(results)
		},
		OnNotice: printer.Notice,
	})

	state, err := runner.Submit(ctx, raw, types.BatchOptions{
		MustInclude:   runMustInclude,
		CharLimit:     runCharLimit,
		Tone:          runTone,
		ResearchDepth: runResearchDepth,
	})
	if err != nil {
		return err
	}
	if state.Phase != workflow.PhaseDone {
		return fmt.Errorf("generation failed: %s", state.LastNotice)
	}

	if err := export.WriteFile(runOut, published); err != nil {
		return fmt.Errorf("failed to write %s: %w", runOut, err)
	}
	fmt.Printf("Saved %d rows to %s\n", len(published), runOut)
	return nil
}

// collectURLs merges positional URLs with the lines of --file into one
// newline-separated block for the batch builder. File lines starting with #
// are comments.
func collectURLs(args []string, path string) (string, error) {
	lines := append([]string{}, args...)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read URL file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			lines = append(lines, trimmed)
		}
	}

	return strings.Join(lines, "\n"), nil
}
