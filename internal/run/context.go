package run

import "time"

// Context identifies one validation attempt. It is created once at engine
// start and immutable for the run's lifetime; nothing here is persisted beyond
// the process. Identifiers are timestamp-derived so concurrent runs against
// the same governance service never collide; identifier uniqueness is the
// isolation mechanism, not locking.
type Context struct {
	RunID        string
	APIID        string
	VersionID    string
	DefinitionID string
	StartedUTC   time.Time
}

func NewContext(now time.Time) Context {
	now = now.UTC()
	runID := now.Format("20060102-150405")
	return Context{
		RunID:        runID,
		APIID:        "ruleset-test-" + runID,
		VersionID:    "v-" + now.Format("20060102"),
		DefinitionID: "openapi",
		StartedUTC:   now,
	}
}
