package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kr/text"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"bte/internal/runtime"
	"bte/internal/scenario"
)

// defaultReportWidth is the column budget long error details are wrapped
// to when stdout isn't a real terminal (piped/CI output).
const defaultReportWidth = 100

func colorProfile() termenv.Profile {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// reportWidth mirrors the teacher's terminal-width-aware overlay sizing
// (internal/session/client/overlay.go's use of term.GetSize), querying the
// real terminal width for a one-shot report instead of a live redraw.
func reportWidth() int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return defaultReportWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultReportWidth
	}
	if w > defaultReportWidth {
		return defaultReportWidth
	}
	return w
}

// renderResult prints a scenario's outcome in the teacher's
// FormatSummary style (benchmarks/runner/results.go): one header line
// plus an indented detail block, colored green/red/yellow by outcome.
func renderResult(w io.Writer, profile termenv.Profile, sc *scenario.Scenario, res *runtime.Result, duration time.Duration) {
	label, color := outcomeLabelAndColor(res.Outcome)
	status := termenv.String(label).Foreground(profile.Color(color)).Bold().String()

	fmt.Fprintf(w, "[%s] %s (%s)\n", status, sc.Name, duration.Round(time.Millisecond))
	if res.Err != nil {
		wrapped := text.Indent(text.Wrap(res.Err.Error(), reportWidth()), "    ")
		fmt.Fprintln(w, wrapped)
	}
}

// renderColored wraps a single line in the given color, used by the
// replay command's simpler pass/fail-per-divergence output.
func renderColored(profile termenv.Profile, color, s string) string {
	return termenv.String(s).Foreground(profile.Color(color)).String()
}

func outcomeLabelAndColor(o runtime.Outcome) (label, color string) {
	switch o {
	case runtime.OutcomeSuccess:
		return "PASS", "2"
	case runtime.OutcomeFailed:
		return "FAIL", "1"
	case runtime.OutcomeTimeout:
		return "TIMEOUT", "3"
	case runtime.OutcomeInvariantViolation:
		return "INVARIANT", "1"
	case runtime.OutcomeChildSignaled:
		return "SIGNALED", "3"
	default:
		return string(o), "7"
	}
}

// renderTotals prints the aggregate line across every scenario run,
// following FormatSummary's "N total, N passed" shape.
func renderTotals(w io.Writer, profile termenv.Profile, total, passed int, elapsed time.Duration) {
	summary := fmt.Sprintf("%d total, %d passed, %d failed", total, passed, total-passed)
	if passed < total {
		summary = termenv.String(summary).Foreground(profile.Color("1")).String()
	} else {
		summary = termenv.String(summary).Foreground(profile.Color("2")).String()
	}
	fmt.Fprintf(w, "\n%s (%s)\n", summary, elapsed.Round(time.Millisecond))
}
