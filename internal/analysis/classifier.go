package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// violationPatterns are matched against the lower-cased JSON serialization of
// an analysis payload. The two feeds do not share a schema, so classification
// is a deliberately permissive field-name heuristic: false positives from
// unrelated fields with these names are an accepted tradeoff for schema
// independence.
var violationPatterns = []*regexp.Regexp{
	// severity/level markers, e.g. {"severity": "error"}
	regexp.MustCompile(`"(severity|level)"\s*:\s*"(error|critical)"`),
	// outcome markers, e.g. {"state": "failed"}
	regexp.MustCompile(`"(result|state)"\s*:\s*"(failed|fail|error)"`),
	// error counters, e.g. {"totalErrors": 3}; zero does not match
	regexp.MustCompile(`"(totalerrors|errors)"\s*:\s*[1-9][0-9]*`),
}

// HasViolations decides pass/fail for an analysis payload. It is a pure
// function: a nil payload never has violations, and any single pattern match
// is sufficient.
func HasViolations(payload any) bool {
	if payload == nil {
		return false
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	text := strings.ToLower(string(b))
	for _, re := range violationPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
