package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ConsoleSink prints a short human-readable result to the console. Phase
// narration during the run goes to stderr elsewhere; this sink only renders
// the final outcome.
type ConsoleSink struct {
	writer io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{writer: w}
}

var (
	successLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	violationsLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorLabel      = color.New(color.FgRed, color.Bold).SprintFunc()
)

func statusLabel(s Status) string {
	switch s {
	case StatusSuccess:
		return successLabel("SUCCESS")
	case StatusViolations:
		return violationsLabel("VIOLATIONS")
	default:
		return errorLabel("ERROR")
	}
}

func (s *ConsoleSink) Emit(r *ValidationReport) error {
	printf := func(format string, args ...any) error {
		_, err := fmt.Fprintf(s.writer, format, args...)
		return err
	}

	if err := printf("\n[%s] ruleset validation %s (run %s)\n", statusLabel(r.Status), r.Analyzer, r.RunID); err != nil {
		return err
	}
	if r.SpecURL != nil {
		if err := printf("  spec:    %s\n", *r.SpecURL); err != nil {
			return err
		}
	}
	if err := printf("  source:  %s\n", r.ResultSource); err != nil {
		return err
	}
	if r.Message != "" {
		if err := printf("  message: %s\n", r.Message); err != nil {
			return err
		}
	}
	return nil
}
