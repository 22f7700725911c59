// Package report defines the durable artifact of a validation run and the
// sinks it is emitted to. One report is produced per run, on every exit path.
package report

import (
	"time"

	"rulegate/internal/analysis"
)

type Status string

const (
	StatusSuccess    Status = "success"
	StatusViolations Status = "violations"
	StatusError      Status = "error"
)

// ValidationReport is the final artifact of one validation run. It is created
// at run start with placeholder values, mutated in place as the run
// progresses, and finalized (finish timestamp set, then written) regardless of
// outcome.
type ValidationReport struct {
	RunID        string `json:"runId"`
	APIID        string `json:"apiId"`
	VersionID    string `json:"versionId"`
	DefinitionID string `json:"definitionId"`

	Subscription  string `json:"subscription"`
	ResourceGroup string `json:"resourceGroup"`
	ServiceName   string `json:"serviceName"`

	TargetURL string `json:"targetUrl"`
	Analyzer  string `json:"analyzer"`

	Status        Status          `json:"status"`
	HasViolations bool            `json:"hasViolations"`
	ResultSource  analysis.Source `json:"resultSource"`

	// SpecURL is the URL the OpenAPI document was discovered at; nil when
	// discovery never succeeded.
	SpecURL *string `json:"specUrl"`

	Message     string `json:"message"`
	StartedUTC  string `json:"startedUtc"`
	FinishedUTC string `json:"finishedUtc"`

	// Payload is the raw analysis payload the classification was based on, or
	// {"error": message} when the run failed before any payload was obtained.
	Payload any `json:"payload"`
}

// Timestamp renders t the way report timestamps are stored: UTC, RFC 3339.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Finalize stamps the finish timestamp. Called exactly once, from the
// guaranteed-emission path.
func (r *ValidationReport) Finalize(now time.Time) {
	r.FinishedUTC = Timestamp(now)
}

// SetError records a run failure. The result source is forced to
// scriptExecution only when no feed was ever reached, preserving provenance if
// classification already happened before a later unrelated failure.
func (r *ValidationReport) SetError(msg string) {
	r.Status = StatusError
	r.Message = msg
	if r.ResultSource == "" {
		r.ResultSource = analysis.SourceScriptExecution
	}
	if r.Payload == nil {
		r.Payload = map[string]any{"error": msg}
	}
}
