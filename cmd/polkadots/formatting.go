package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lf-/polkadots/pkg/types"
)

var (
	createdStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	correctStyle  = lipgloss.NewStyle().Faint(true)
	skippedStyle  = lipgloss.NewStyle().Faint(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boldStyle     = lipgloss.NewStyle().Bold(true)
)

// styled applies a lipgloss style only when stdout is a terminal
func styled(style lipgloss.Style, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return style.Render(s)
}

// resultLine formats one request outcome for display
func resultLine(res types.RequestResult, dryRun bool) string {
	switch res.Outcome {
	case types.OutcomeCreated:
		verb := "linked"
		if res.Message != "" {
			verb = res.Message
		}
		if dryRun {
			verb = "would: " + verb
		}
		return fmt.Sprintf("%s %s (%s)", styled(createdStyle, "✓"), res.Destination, verb)
	case types.OutcomeAlreadyCorrect:
		return fmt.Sprintf("%s %s (already correct)", styled(correctStyle, "="), res.Destination)
	case types.OutcomeSkipped:
		return fmt.Sprintf("%s %s (%s)", styled(skippedStyle, "-"), res.Destination, res.Message)
	case types.OutcomeConflict:
		return fmt.Sprintf("%s %s: %v", styled(conflictStyle, "!"), res.Destination, res.Err)
	default:
		return fmt.Sprintf("%s %s: %v", styled(errorStyle, "✗"), res.Destination, res.Err)
	}
}

// renderReport prints every outcome followed by a one-line summary
func renderReport(w io.Writer, report *types.ExecutionReport) {
	for _, res := range report.Results {
		fmt.Fprintln(w, resultLine(res, report.DryRun))
	}

	summary := fmt.Sprintf("%d created, %d already correct, %d skipped, %d conflicts, %d errors",
		report.Count(types.OutcomeCreated),
		report.Count(types.OutcomeAlreadyCorrect),
		report.Count(types.OutcomeSkipped),
		report.Count(types.OutcomeConflict),
		report.Count(types.OutcomeError))
	if report.DryRun {
		summary = "[dry run] " + summary
	}
	fmt.Fprintln(w, styled(boldStyle, summary))
}
