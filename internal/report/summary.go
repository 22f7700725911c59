package report

import (
	"fmt"
	"os"
)

// stepSummaryEnv names the file CI jobs may expose for job summaries.
const stepSummaryEnv = "GITHUB_STEP_SUMMARY"

// SummarySink appends the Markdown rendering to the CI-provided summary
// surface. NewSummarySink returns (nil, false) when no surface is configured;
// that is not an error, just a no-op for local runs.
type SummarySink struct {
	path string
}

func NewSummarySink() (*SummarySink, bool) {
	path := os.Getenv(stepSummaryEnv)
	if path == "" {
		return nil, false
	}
	return &SummarySink{path: path}, true
}

func (s *SummarySink) Emit(r *ValidationReport) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open step summary: %w", err)
	}
	_, err = f.WriteString(RenderMarkdown(r) + "\n")
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
