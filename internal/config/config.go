package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect run
	// behavior, keep the CLI flags in internal/cli/validate.go in sync.
	Service  Service
	Target   Target
	Analysis Analysis
	Policy   Policy
	Output   Output
	Runtime  Runtime
}

type Service struct {
	// Subscription is the subscription the governance service lives in (see --subscription).
	Subscription string

	// ResourceGroup is the resource group of the governance service (see --resource-group).
	ResourceGroup string

	// Name is the governance service (API center) instance name (see --service-name).
	Name string

	// APIVersion is the management-plane REST API version used for direct calls
	// to the governance service (see --api-version).
	APIVersion string
}

type Target struct {
	// BaseURL is the base URL of the running service whose OpenAPI document is
	// discovered and validated (see --base-url).
	BaseURL string
}

type Analysis struct {
	// Analyzer is the analyzer configuration name in the governance service
	// whose ruleset is applied (see --analyzer).
	Analyzer string

	// Timeout bounds the whole result-polling window (see --timeout).
	Timeout time.Duration

	// PollInterval is the fixed sleep between result polls (see --poll-interval).
	PollInterval time.Duration
}

type Policy struct {
	// FailOnViolations makes ruleset violations exit nonzero (see --fail-on-violations).
	// When false, violations are reported but the process exits 0.
	FailOnViolations bool

	// Stage is the lifecycle stage label stamped on the disposable API version
	// (see --stage).
	Stage string
}

type Output struct {
	// Report is the path the machine-readable JSON report is written to (see --report).
	// A Markdown rendering is written next to it with a .md extension.
	Report string

	// NoConsole suppresses console narration (use with --report for machine output).
	NoConsole bool
}

type Runtime struct {
	// Verbose enables more detailed diagnostics (prints every governance call
	// and full error details).
	Verbose bool
}

func New() *Config {
	return &Config{
		Service: Service{
			APIVersion: "2024-03-01",
		},
		Target: Target{
			BaseURL: "http://localhost:8080",
		},
		Analysis: Analysis{
			Analyzer:     "spectral-openapi",
			Timeout:      240 * time.Second,
			PollInterval: 10 * time.Second,
		},
		Policy: Policy{
			Stage: "design",
		},
		Output: Output{
			Report: "rulegate-report.json",
		},
	}
}

func (c *Config) Validate() error {
	c.Service.Subscription = strings.TrimSpace(c.Service.Subscription)
	c.Service.ResourceGroup = strings.TrimSpace(c.Service.ResourceGroup)
	c.Service.Name = strings.TrimSpace(c.Service.Name)

	if c.Service.Subscription == "" {
		return errors.New("--subscription is required")
	}
	if c.Service.ResourceGroup == "" {
		return errors.New("--resource-group is required")
	}
	if c.Service.Name == "" {
		return errors.New("--service-name is required")
	}

	c.Service.APIVersion = strings.TrimSpace(c.Service.APIVersion)
	if c.Service.APIVersion == "" {
		return errors.New("--api-version must not be empty")
	}

	base, err := normalizeBaseURL(c.Target.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid --base-url value: %w", err)
	}
	c.Target.BaseURL = base

	c.Analysis.Analyzer = strings.TrimSpace(c.Analysis.Analyzer)
	if c.Analysis.Analyzer == "" {
		return errors.New("--analyzer must not be empty")
	}
	if c.Analysis.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Analysis.PollInterval <= 0 {
		return errors.New("--poll-interval must be > 0")
	}
	if c.Analysis.PollInterval > c.Analysis.Timeout {
		return errors.New("--poll-interval must not exceed --timeout")
	}

	c.Policy.Stage = strings.ToLower(strings.TrimSpace(c.Policy.Stage))
	if c.Policy.Stage == "" {
		c.Policy.Stage = "design"
	}

	c.Output.Report = strings.TrimSpace(c.Output.Report)
	if c.Output.Report == "" {
		return errors.New("--report path must not be empty")
	}
	if ext := strings.ToLower(filepath.Ext(c.Output.Report)); ext != ".json" {
		return fmt.Errorf("--report must be a .json path (got %q)", c.Output.Report)
	}

	return nil
}

// MarkdownReportPath derives the human-readable report path from the JSON
// report path by swapping the extension.
func (c *Config) MarkdownReportPath() string {
	p := c.Output.Report
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".md"
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%q: missing host", raw)
	}
	return raw, nil
}
