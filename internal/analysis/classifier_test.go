package analysis

import (
	"encoding/json"
	"testing"
)

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad test payload %q: %v", raw, err)
	}
	return v
}

func TestHasViolationsNilPayload(t *testing.T) {
	if HasViolations(nil) {
		t.Error("nil payload must not have violations")
	}
}

func TestHasViolations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload string
		want    bool
	}{
		{"severity error", `[{"severity": "error", "message": "missing description"}]`, true},
		{"severity critical mixed case", `[{"Severity": "CRITICAL"}]`, true},
		{"severity warning only", `[{"severity": "warning"}]`, false},
		{"level critical", `{"value": [{"level": "critical"}]}`, true},
		{"state failed", `{"state": "Failed"}`, true},
		{"result fail", `{"result": "fail"}`, true},
		{"result failure is not fail", `{"result": "failure"}`, false},
		{"state succeeded", `{"state": "succeeded"}`, false},
		{"errors zero", `{"errors": 0, "warnings": 12}`, false},
		{"errors nonzero", `{"errors": 5}`, true},
		{"totalErrors nonzero", `{"totalErrors": 1}`, true},
		{"totalErrors zero", `{"totalErrors": 0}`, false},
		{"clean results", `[{"ruleId": "info-description", "severity": "info"}]`, false},
		{"empty object", `{}`, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasViolations(parse(t, tc.payload)); got != tc.want {
				t.Errorf("HasViolations(%s) = %v, want %v", tc.payload, got, tc.want)
			}
		})
	}
}

func TestHasViolationsIsPure(t *testing.T) {
	payload := parse(t, `[{"severity": "error"}]`)
	first := HasViolations(payload)
	for i := 0; i < 3; i++ {
		if HasViolations(payload) != first {
			t.Fatal("classification changed across calls on the same payload")
		}
	}
}
