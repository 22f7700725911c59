// Package run sequences the discover, register, poll, classify, cleanup
// workflow and owns the disposable-entity lifecycle.
package run

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rulegate/internal/analysis"
	"rulegate/internal/config"
	"rulegate/internal/discovery"
	"rulegate/internal/governance"
	"rulegate/internal/report"
)

// Discoverer finds a machine-readable API description for a base URL.
type Discoverer interface {
	Discover(ctx context.Context, baseURL string) (*discovery.Spec, error)
}

// EntityCommands is the disposable-entity lifecycle surface of the governance
// service (satisfied by governance.Commands).
type EntityCommands interface {
	CreateAPI(ctx context.Context, apiID, title string) error
	CreateVersion(ctx context.Context, apiID, versionID, stage string) error
	CreateDefinition(ctx context.Context, apiID, versionID, definitionID string) error
	ImportSpec(ctx context.Context, apiID, versionID, definitionID, content string) error
	DeleteAPI(ctx context.Context, apiID string) error
}

// ResultPoller awaits analysis results (satisfied by analysis.Poller).
type ResultPoller interface {
	Poll(ctx context.Context, primaryURL, fallbackURL, apiID, definitionID string, deadline time.Time) (any, analysis.Source, error)
}

type Engine struct {
	Discoverer Discoverer
	Commands   EntityCommands
	Caller     analysis.Caller
	Poller     ResultPoller
	Scopes     governance.Scopes
	Reports    *report.Manager

	// Console receives phase narration; nil silences it.
	Console io.Writer

	// now is a test seam.
	now func() time.Time
}

func NewEngine(disc Discoverer, commands EntityCommands, caller analysis.Caller, poller ResultPoller, scopes governance.Scopes, reports *report.Manager) *Engine {
	return &Engine{
		Discoverer: disc,
		Commands:   commands,
		Caller:     caller,
		Poller:     poller,
		Scopes:     scopes,
		Reports:    reports,
		now:        time.Now,
	}
}

// ExitCode maps a final run status to the process exit code. Whether
// violations fail the run is the caller's policy, not a property of
// classification.
//
// Exit code contract:
//
//	0 = no violations, or violations with --fail-on-violations=false
//	1 = run error, or violations with --fail-on-violations=true
//	2 = usage/configuration error (run never started; see internal/cli)
func ExitCode(status report.Status, failOnViolations bool) int {
	switch status {
	case report.StatusSuccess:
		return 0
	case report.StatusViolations:
		if failOnViolations {
			return 1
		}
		return 0
	default:
		return 1
	}
}

// Run executes one validation and returns the process exit code. The report
// is emitted on every exit path, and the disposable entity is deleted whenever
// creation progressed far enough to require it. Cleanup failures are logged
// and swallowed; they never change the run's status or exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	rc := NewContext(e.now())
	rep := e.newReport(rc, cfg)

	// Deferred blocks run LIFO: cleanup first, then finalize + emit.
	defer func() {
		rep.Finalize(e.now())
		if err := e.Reports.Emit(rep); err != nil {
			e.narratef("Error writing report: %v", err)
		}
	}()

	cleanupNeeded := false
	defer func() {
		if !cleanupNeeded {
			return
		}
		e.narratef("Deleting disposable API %s...", rc.APIID)
		// Cleanup still runs when the run context was canceled mid-phase.
		if err := e.Commands.DeleteAPI(context.WithoutCancel(ctx), rc.APIID); err != nil {
			e.narratef("Warning: cleanup of %s failed: %v", rc.APIID, err)
		}
	}()

	if err := e.execute(ctx, cfg, rc, rep, &cleanupNeeded); err != nil {
		rep.SetError(err.Error())
	}
	return ExitCode(rep.Status, cfg.Policy.FailOnViolations)
}

func (e *Engine) execute(ctx context.Context, cfg *config.Config, rc Context, rep *report.ValidationReport, cleanupNeeded *bool) error {
	e.narratef("Discovering OpenAPI document at %s...", cfg.Target.BaseURL)
	spec, err := e.Discoverer.Discover(ctx, cfg.Target.BaseURL)
	if err != nil {
		return err
	}
	rep.SpecURL = &spec.URL
	e.narratef("Found %s (%d bytes).", spec.URL, len(spec.Content))

	e.narratef("Creating disposable API %s...", rc.APIID)
	if err := e.Commands.CreateAPI(ctx, rc.APIID, "Ruleset validation "+rc.RunID); err != nil {
		return err
	}
	// Set immediately after the first successful create, before anything else
	// can fail, so a partial entity still gets deleted.
	*cleanupNeeded = true

	if err := e.Commands.CreateVersion(ctx, rc.APIID, rc.VersionID, cfg.Policy.Stage); err != nil {
		return err
	}
	if err := e.Commands.CreateDefinition(ctx, rc.APIID, rc.VersionID, rc.DefinitionID); err != nil {
		return err
	}

	e.narratef("Importing specification into %s/%s/%s...", rc.APIID, rc.VersionID, rc.DefinitionID)
	if err := e.Commands.ImportSpec(ctx, rc.APIID, rc.VersionID, rc.DefinitionID, spec.Content); err != nil {
		return err
	}

	// Fire and forget: analysis may already run automatically on import, so
	// this refresh is a hint, not a requirement. Its result is discarded by
	// contract.
	_ = e.Caller.CallJSON(ctx, http.MethodPost, e.Scopes.UpdateAnalysisState(rc.APIID, rc.VersionID, rc.DefinitionID), nil)

	deadline := e.now().Add(cfg.Analysis.Timeout)
	e.narratef("Polling for analysis results (up to %s)...", cfg.Analysis.Timeout)
	payload, source, err := e.Poller.Poll(ctx,
		e.Scopes.AnalysisResults(rc.APIID, rc.VersionID, rc.DefinitionID),
		e.Scopes.AnalyzerExecutions(cfg.Analysis.Analyzer),
		rc.APIID, rc.DefinitionID, deadline)
	if err != nil {
		return err
	}
	rep.ResultSource = source
	rep.Payload = payload

	if analysis.HasViolations(payload) {
		rep.Status = report.StatusViolations
		rep.HasViolations = true
		rep.Message = fmt.Sprintf("ruleset violations found (source: %s)", source)
	} else {
		rep.Status = report.StatusSuccess
		rep.Message = "no ruleset violations found"
	}
	e.narratef("Classification: %s.", rep.Status)
	return nil
}

func (e *Engine) newReport(rc Context, cfg *config.Config) *report.ValidationReport {
	return &report.ValidationReport{
		RunID:         rc.RunID,
		APIID:         rc.APIID,
		VersionID:     rc.VersionID,
		DefinitionID:  rc.DefinitionID,
		Subscription:  cfg.Service.Subscription,
		ResourceGroup: cfg.Service.ResourceGroup,
		ServiceName:   cfg.Service.Name,
		TargetURL:     cfg.Target.BaseURL,
		Analyzer:      cfg.Analysis.Analyzer,
		StartedUTC:    report.Timestamp(rc.StartedUTC),
	}
}

func (e *Engine) narratef(format string, args ...any) {
	if e.Console == nil {
		return
	}
	fmt.Fprintf(e.Console, format+"\n", args...)
}
