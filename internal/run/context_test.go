package run

import (
	"testing"
	"time"
)

func TestNewContextIdentifiers(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 30, 15, 0, time.UTC)
	rc := NewContext(now)

	if rc.RunID != "20260828-093015" {
		t.Errorf("unexpected run id: %q", rc.RunID)
	}
	if rc.APIID != "ruleset-test-20260828-093015" {
		t.Errorf("unexpected api id: %q", rc.APIID)
	}
	if rc.VersionID != "v-20260828" {
		t.Errorf("unexpected version id: %q", rc.VersionID)
	}
	if rc.DefinitionID != "openapi" {
		t.Errorf("unexpected definition id: %q", rc.DefinitionID)
	}
}

func TestNewContextNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	rc := NewContext(time.Date(2026, 8, 28, 11, 30, 15, 0, loc))
	if rc.RunID != "20260828-093015" {
		t.Errorf("expected UTC-derived run id, got %q", rc.RunID)
	}
	if rc.StartedUTC.Location() != time.UTC {
		t.Errorf("expected StartedUTC in UTC, got %v", rc.StartedUTC.Location())
	}
}
