package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rulegate",
	Short: "Validate a live API's OpenAPI document against a managed ruleset",
	Long: `Rulegate validates a running REST service against a centrally managed ruleset.

It discovers the service's OpenAPI document, registers it as a disposable API in
an API governance service, waits for rule analysis, classifies the outcome, and
always deletes the disposable API afterwards, whether the run passes, fails, or crashes.

Examples:
	# Show available commands and global flags
	rulegate --help

	# Validate a service against the default spectral-openapi ruleset
	rulegate validate --subscription <sub> --resource-group my-rg --service-name my-center \
		--base-url https://petstore.example.com/api/v3

	# Print build info
	rulegate version

Output:
	Every run writes a machine-readable JSON report and a Markdown rendering
	next to it, and appends the Markdown to the CI job summary when one is
	configured via environment.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every governance call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
