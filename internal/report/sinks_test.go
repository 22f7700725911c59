package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestJSONSinkWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	s, err := NewJSONSink(path)
	if err != nil {
		t.Fatalf("NewJSONSink failed: %v", err)
	}
	if err := s.Emit(sampleReport()); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got["status"] != "violations" {
		t.Errorf("expected status violations, got %v", got["status"])
	}
	if got["resultSource"] != "definitionAnalysisResults" {
		t.Errorf("expected resultSource definitionAnalysisResults, got %v", got["resultSource"])
	}
	if got["hasViolations"] != true {
		t.Errorf("expected hasViolations true, got %v", got["hasViolations"])
	}
	if _, ok := got["payload"]; !ok {
		t.Error("expected raw payload in report")
	}
}

func TestMarkdownContract(t *testing.T) {
	r := sampleReport()
	r.Finalize(mustTime(t, "2026-08-28T12:04:00Z"))
	out := RenderMarkdown(r)

	required := []string{
		"# Ruleset Validation Report",
		"**Ruleset violations found.**",
		"| Status | violations |",
		"| Run | 20260828-120000 |",
		"| Service | sub-1 / rg-1 / svc-1 |",
		"| Analyzer | spectral-openapi |",
		"| Discovered spec | https://svc.example.com/openapi.json |",
		"| Result source | definitionAnalysisResults |",
		"| Finished (UTC) | 2026-08-28T12:04:00Z |",
		"## Analysis payload",
		"```json",
	}
	for _, want := range required {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q; got:\n%s", want, out)
		}
	}
}

func TestMarkdownNilSpecURL(t *testing.T) {
	r := sampleReport()
	r.SpecURL = nil
	out := RenderMarkdown(r)
	if !strings.Contains(out, "| Discovered spec | — |") {
		t.Errorf("expected placeholder for missing spec URL; got:\n%s", out)
	}
}

func TestMarkdownSinkWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewMarkdownSink(path)
	if err != nil {
		t.Fatalf("NewMarkdownSink failed: %v", err)
	}
	if err := s.Emit(sampleReport()); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(b), "# Ruleset Validation Report") {
		t.Error("expected markdown heading in file")
	}
}

func TestSummarySinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	s, ok := NewSummarySink()
	if !ok {
		t.Fatal("expected summary sink when env is set")
	}
	if err := s.Emit(sampleReport()); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if err := s.Emit(sampleReport()); err != nil {
		t.Fatalf("second Emit failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := strings.Count(string(b), "# Ruleset Validation Report"); got != 2 {
		t.Errorf("expected two appended renderings, got %d", got)
	}
}

func TestSummarySinkAbsentWithoutEnv(t *testing.T) {
	t.Setenv("GITHUB_STEP_SUMMARY", "")
	if _, ok := NewSummarySink(); ok {
		t.Error("expected no summary sink without the env var")
	}
}

type failingSink struct{}

func (failingSink) Emit(r *ValidationReport) error { return errors.New("disk full") }

type countingSink struct{ emits int }

func (c *countingSink) Emit(r *ValidationReport) error {
	c.emits++
	return nil
}

func TestManagerContinuesPastFailingSink(t *testing.T) {
	m := NewManager()
	counter := &countingSink{}
	if err := m.AddSink(failingSink{}); err != nil {
		t.Fatalf("AddSink failed: %v", err)
	}
	if err := m.AddSink(counter); err != nil {
		t.Fatalf("AddSink failed: %v", err)
	}

	err := m.Emit(sampleReport())
	if err == nil {
		t.Fatal("expected aggregated error from failing sink")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected underlying sink error, got: %v", err)
	}
	if counter.emits != 1 {
		t.Errorf("expected later sink to still receive the report, got %d emits", counter.emits)
	}
}

func TestManagerRejectsNilSink(t *testing.T) {
	m := NewManager()
	if err := m.AddSink(nil); err == nil {
		t.Error("expected nil sink to be rejected")
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return parsed
}
