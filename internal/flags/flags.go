package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// run engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Service.Subscription, flags.FlagSubscription, "", "...")
//	arg := "--" + flags.FlagSubscription
const (
	// Governance service coordinates
	FlagSubscription  = "subscription"
	FlagResourceGroup = "resource-group"
	FlagServiceName   = "service-name"

	// Target
	FlagBaseURL = "base-url"

	// Analysis
	FlagAnalyzer     = "analyzer"
	FlagAPIVersion   = "api-version"
	FlagTimeout      = "timeout"
	FlagPollInterval = "poll-interval"

	// Policy
	FlagFailOnViolations = "fail-on-violations"
	FlagStage            = "stage"

	// Output
	FlagReport    = "report"
	FlagNoConsole = "no-console"
)
