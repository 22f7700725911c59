package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"rulegate/internal/analysis"
	"rulegate/internal/config"
	"rulegate/internal/discovery"
	"rulegate/internal/flags"
	"rulegate/internal/governance"
	"rulegate/internal/report"
	"rulegate/internal/run"

	"github.com/spf13/cobra"
)

var cfg = config.New()

const validateHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	Rulegate authenticates to the governance service with a management-plane
	access token.

	Sources (in order):
	1) AZURE_ACCESS_TOKEN or ARM_ACCESS_TOKEN environment variables
	2) Platform CLI login via az account get-access-token (if az is installed
	   and logged in)

	The entity lifecycle (create/import/delete) goes through the az CLI, which
	must be installed and logged in for a real run.

	GITHUB_STEP_SUMMARY, when set by CI, receives the Markdown report as a job
	summary appendix.

  Examples:
    # macOS/Linux
    az login
    rulegate validate --subscription <sub> --resource-group my-rg --service-name my-center

    # Windows PowerShell
    $env:ARM_ACCESS_TOKEN = "<token>"
    rulegate validate --subscription <sub> --resource-group my-rg --service-name my-center

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run one ruleset validation against a live service",
	Long: `Run one ruleset validation against a live service.

The run discovers an OpenAPI document by probing conventional paths under
--base-url, registers it as a disposable API (named ruleset-test-<runId>) in
the governance service, triggers rule analysis, polls for results until
--timeout, and classifies the outcome. The disposable API is deleted on every
exit path once it exists.

Output:
	A JSON report is written to --report and a Markdown rendering next to it.
	Console narration goes to stderr; suppress it with --no-console.

Exit codes:
	0 = no violations, or violations with --fail-on-violations=false
	1 = run error, or violations with --fail-on-violations=true
	2 = usage/configuration error (run never started)

Examples:
  # Fail the CI job on violations
  rulegate validate --subscription <sub> --resource-group my-rg --service-name my-center \
    --base-url https://petstore.example.com/api/v3 --fail-on-violations

  # Report-only mode with a custom analyzer
  rulegate validate --subscription <sub> --resource-group my-rg --service-name my-center \
    --analyzer my-ruleset --report out/validation.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		ctx := context.Background()
		token, _, err := governance.ResolveAuthToken(ctx, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve governance auth token: %v\n", err)
			os.Exit(2)
		}
		if strings.TrimSpace(token) == "" {
			fmt.Fprintln(os.Stderr, "Error: governance auth token is required (set AZURE_ACCESS_TOKEN or run 'az login')")
			os.Exit(2)
		}

		eng, err := buildEngine(ctx, cfg, token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		os.Exit(eng.Run(ctx, cfg))
	},
}

func buildEngine(ctx context.Context, cfg *config.Config, token string) (*run.Engine, error) {
	client, err := governance.NewClient(ctx, token, governance.WithVerbose(cfg.Runtime.Verbose, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create governance client: %w", err)
	}

	prober := discovery.NewProber(http.DefaultClient)
	prober.Verbose = cfg.Runtime.Verbose
	prober.W = os.Stderr

	poller := analysis.NewPoller(client, cfg.Analysis.PollInterval)
	poller.Verbose = cfg.Runtime.Verbose
	poller.W = os.Stderr

	scopes := governance.Scopes{
		Subscription:  cfg.Service.Subscription,
		ResourceGroup: cfg.Service.ResourceGroup,
		ServiceName:   cfg.Service.Name,
		APIVersion:    cfg.Service.APIVersion,
	}
	commands := governance.NewCommands(nil, cfg.Service.Subscription, cfg.Service.ResourceGroup, cfg.Service.Name)

	reports, err := setupReportManager(cfg)
	if err != nil {
		return nil, err
	}

	eng := run.NewEngine(prober, commands, client, poller, scopes, reports)
	if !cfg.Output.NoConsole {
		eng.Console = os.Stderr
	}
	return eng, nil
}

func setupReportManager(cfg *config.Config) (*report.Manager, error) {
	reports := report.NewManager()

	if !cfg.Output.NoConsole {
		if err := reports.AddSink(report.NewConsoleSink(nil)); err != nil {
			return nil, err
		}
	}

	js, err := report.NewJSONSink(cfg.Output.Report)
	if err != nil {
		return nil, err
	}
	if err := reports.AddSink(js); err != nil {
		return nil, err
	}

	ms, err := report.NewMarkdownSink(cfg.MarkdownReportPath())
	if err != nil {
		return nil, err
	}
	if err := reports.AddSink(ms); err != nil {
		return nil, err
	}

	if ss, ok := report.NewSummarySink(); ok {
		if err := reports.AddSink(ss); err != nil {
			return nil, err
		}
	}

	return reports, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.SetHelpTemplate(validateHelpTemplate)

	// Governance service coordinates
	validateCmd.Flags().StringVar(&cfg.Service.Subscription, flags.FlagSubscription, "", "Subscription of the governance service (required)")
	validateCmd.Flags().StringVar(&cfg.Service.ResourceGroup, flags.FlagResourceGroup, "", "Resource group of the governance service (required)")
	validateCmd.Flags().StringVar(&cfg.Service.Name, flags.FlagServiceName, "", "Governance service instance name (required)")
	validateCmd.Flags().StringVar(&cfg.Service.APIVersion, flags.FlagAPIVersion, cfg.Service.APIVersion, "Management-plane REST API version")

	// Target
	validateCmd.Flags().StringVar(&cfg.Target.BaseURL, flags.FlagBaseURL, cfg.Target.BaseURL, "Base URL of the service whose OpenAPI document is validated")

	// Analysis
	validateCmd.Flags().StringVar(&cfg.Analysis.Analyzer, flags.FlagAnalyzer, cfg.Analysis.Analyzer, "Analyzer configuration name in the governance service")
	validateCmd.Flags().DurationVar(&cfg.Analysis.Timeout, flags.FlagTimeout, cfg.Analysis.Timeout, "Overall deadline for analysis results (default: 4m)")
	validateCmd.Flags().DurationVar(&cfg.Analysis.PollInterval, flags.FlagPollInterval, cfg.Analysis.PollInterval, "Fixed interval between result polls (default: 10s)")

	// Policy
	validateCmd.Flags().BoolVar(&cfg.Policy.FailOnViolations, flags.FlagFailOnViolations, false, "Exit nonzero when the ruleset reports violations")
	validateCmd.Flags().StringVar(&cfg.Policy.Stage, flags.FlagStage, cfg.Policy.Stage, "Lifecycle stage label for the disposable API version")

	// Output
	validateCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, cfg.Output.Report, "Write the JSON report to this path (Markdown is written next to it)")
	validateCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console narration (use with --report for machine output)")
}
