// Package analysis retrieves and classifies rule-analysis results from the
// governance service. The two result feeds (definition-scoped and
// analyzer-scoped) do not share a payload schema, so everything here operates
// on generic parsed JSON.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source records which feed produced the payload used for classification.
type Source string

const (
	// SourceDefinitionResults is the primary, definition-scoped feed.
	SourceDefinitionResults Source = "definitionAnalysisResults"

	// SourceAnalyzerExecutions is the secondary, analyzer-scoped feed.
	SourceAnalyzerExecutions Source = "analyzerExecutions"

	// SourceScriptExecution marks runs that failed before any feed was reached.
	SourceScriptExecution Source = "scriptExecution"
)

// ErrNoAnalysisResults reports that both feeds stayed empty or unreachable
// through the whole deadline window.
var ErrNoAnalysisResults = errors.New("no analysis results from definitionAnalysisResults or analyzerExecutions feeds")

// Caller is the authenticated JSON-call primitive (see governance.Client).
// A nil return means failure or not-found; the poller never distinguishes.
type Caller interface {
	CallJSON(ctx context.Context, method, url string, body any) any
}

type Poller struct {
	Caller Caller

	// Interval is the fixed sleep between primary-feed polls. There is no
	// exponential backoff: the loop is bounded by a wall-clock deadline, not
	// an iteration count, so behavior stays deterministic under a fake clock.
	Interval time.Duration

	Verbose bool
	W       io.Writer

	// now and sleep are test seams.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoller(caller Caller, interval time.Duration) *Poller {
	return &Poller{
		Caller:   caller,
		Interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll queries the primary feed at primaryURL until it returns a non-empty
// result list or the deadline elapses, then falls back to exactly one query of
// the secondary feed at fallbackURL. The returned Source always names the feed
// that actually produced the payload.
//
// A non-nil primary response with an empty result list is treated identically
// to an unreachable feed: keep polling. Non-empty is the only success
// criterion.
func (p *Poller) Poll(ctx context.Context, primaryURL, fallbackURL, apiID, definitionID string, deadline time.Time) (any, Source, error) {
	for p.now().Before(deadline) {
		payload := p.Caller.CallJSON(ctx, http.MethodGet, primaryURL, nil)
		if list := ResultList(payload); len(list) > 0 {
			p.logf("primary feed returned %d results", len(list))
			return payload, SourceDefinitionResults, nil
		}
		p.logf("primary feed empty, sleeping %s", p.Interval)
		if err := p.sleep(ctx, p.Interval); err != nil {
			return nil, "", fmt.Errorf("polling interrupted: %w", err)
		}
	}
	return p.fallback(ctx, fallbackURL, apiID, definitionID)
}

// fallback queries the analyzer-scoped executions feed once. Its schema is not
// guaranteed, so entries are matched against the run's identifiers as literal
// substrings of their serialized form; when nothing matches, the entire result
// set is used rather than failing.
func (p *Poller) fallback(ctx context.Context, fallbackURL, apiID, definitionID string) (any, Source, error) {
	payload := p.Caller.CallJSON(ctx, http.MethodGet, fallbackURL, nil)
	list := ResultList(payload)
	if len(list) == 0 {
		return nil, "", ErrNoAnalysisResults
	}

	var matched []any
	for _, entry := range list {
		b, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		s := string(b)
		if strings.Contains(s, apiID) || strings.Contains(s, definitionID) {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		p.logf("fallback feed: no entries mention %s or %s, using all %d", apiID, definitionID, len(list))
		matched = list
	} else {
		p.logf("fallback feed: %d of %d entries matched", len(matched), len(list))
	}
	return matched, SourceAnalyzerExecutions, nil
}

// ResultList extracts the result list from a feed payload. Feeds return either
// a bare JSON array or an object wrapping the array under "value" or
// "results"; anything else yields nil.
func ResultList(payload any) []any {
	switch t := payload.(type) {
	case []any:
		return t
	case map[string]any:
		for _, key := range []string{"value", "results"} {
			if list, ok := t[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}

func (p *Poller) logf(format string, args ...any) {
	if !p.Verbose || p.W == nil {
		return
	}
	fmt.Fprintf(p.W, "[verbose] poll: "+format+"\n", args...)
}
