package report

import (
	"testing"
	"time"

	"rulegate/internal/analysis"
)

func sampleReport() *ValidationReport {
	specURL := "https://svc.example.com/openapi.json"
	return &ValidationReport{
		RunID:         "20260828-120000",
		APIID:         "ruleset-test-20260828-120000",
		VersionID:     "v-20260828",
		DefinitionID:  "openapi",
		Subscription:  "sub-1",
		ResourceGroup: "rg-1",
		ServiceName:   "svc-1",
		TargetURL:     "https://svc.example.com/api/v3",
		Analyzer:      "spectral-openapi",
		Status:        StatusViolations,
		HasViolations: true,
		ResultSource:  analysis.SourceDefinitionResults,
		SpecURL:       &specURL,
		Message:       "ruleset violations found",
		StartedUTC:    "2026-08-28T12:00:00Z",
		Payload:       []any{map[string]any{"severity": "error"}},
	}
}

func TestTimestampFormat(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := Timestamp(time.Date(2026, 8, 28, 15, 4, 5, 0, loc))
	if got != "2026-08-28T12:04:05Z" {
		t.Errorf("expected UTC RFC 3339 timestamp, got %q", got)
	}
}

func TestFinalizeSetsFinishTimestamp(t *testing.T) {
	r := sampleReport()
	r.Finalize(time.Date(2026, 8, 28, 12, 4, 0, 0, time.UTC))
	if r.FinishedUTC != "2026-08-28T12:04:00Z" {
		t.Errorf("unexpected finish timestamp: %q", r.FinishedUTC)
	}
}

func TestSetErrorDefaultsProvenance(t *testing.T) {
	r := &ValidationReport{}
	r.SetError("boom")

	if r.Status != StatusError {
		t.Errorf("expected status error, got %s", r.Status)
	}
	if r.ResultSource != analysis.SourceScriptExecution {
		t.Errorf("expected scriptExecution source, got %s", r.ResultSource)
	}
	obj, ok := r.Payload.(map[string]any)
	if !ok || obj["error"] != "boom" {
		t.Errorf("expected error payload, got %v", r.Payload)
	}
}

func TestSetErrorPreservesReachedFeed(t *testing.T) {
	// A failure after classification must not overwrite which feed actually
	// produced the payload.
	r := &ValidationReport{
		ResultSource: analysis.SourceAnalyzerExecutions,
		Payload:      []any{map[string]any{"state": "failed"}},
	}
	r.SetError("late failure")

	if r.ResultSource != analysis.SourceAnalyzerExecutions {
		t.Errorf("expected feed provenance preserved, got %s", r.ResultSource)
	}
	if _, ok := r.Payload.([]any); !ok {
		t.Errorf("expected original payload preserved, got %v", r.Payload)
	}
}
