package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderMarkdown renders the report for humans. The same rendering is written
// to the Markdown file sink and appended to the CI step summary.
func RenderMarkdown(r *ValidationReport) string {
	var b strings.Builder
	b.WriteString("# Ruleset Validation Report\n\n")

	switch r.Status {
	case StatusSuccess:
		b.WriteString("✅ **No ruleset violations found.**\n\n")
	case StatusViolations:
		b.WriteString("⚠️ **Ruleset violations found.**\n\n")
	default:
		b.WriteString("❌ **Validation run failed.**\n\n")
	}

	if r.Message != "" {
		b.WriteString(r.Message + "\n\n")
	}

	b.WriteString("| | |\n|---|---|\n")
	row := func(k, v string) {
		if v == "" {
			v = "—"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", k, v)
	}
	row("Status", string(r.Status))
	row("Run", r.RunID)
	row("Service", fmt.Sprintf("%s / %s / %s", r.Subscription, r.ResourceGroup, r.ServiceName))
	row("Target", r.TargetURL)
	row("Analyzer", r.Analyzer)
	specURL := ""
	if r.SpecURL != nil {
		specURL = *r.SpecURL
	}
	row("Discovered spec", specURL)
	row("Result source", string(r.ResultSource))
	row("Started (UTC)", r.StartedUTC)
	row("Finished (UTC)", r.FinishedUTC)
	b.WriteString("\n")

	if r.Payload != nil {
		b.WriteString("## Analysis payload\n\n")
		payload, err := json.MarshalIndent(r.Payload, "", "  ")
		if err != nil {
			payload = []byte(fmt.Sprintf("%v", r.Payload))
		}
		b.WriteString("```json\n" + string(payload) + "\n```\n")
	}

	return b.String()
}
