package governance

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes one management-plane CLI command and returns its
// combined stdout/stderr. The run engine injects fakes through this seam.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NewExecRunner returns the production CommandRunner backed by os/exec.
func NewExecRunner() CommandRunner { return execRunner{} }

// CommandError reports a failed management-plane operation. It carries the
// full command line and the combined output so the failure lands in the report
// with enough context to reproduce by hand.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// importSpecificationKind identifies the inline specification format handed to
// the governance service on import.
const importSpecificationKind = `{"name":"openapi","version":"3.0.1"}`

// Commands exposes the disposable-entity lifecycle operations. Each call maps
// to exactly one CLI invocation and performs no retries; callers decide how to
// react to failures.
type Commands struct {
	Runner CommandRunner

	Subscription  string
	ResourceGroup string
	ServiceName   string
}

func NewCommands(runner CommandRunner, subscription, resourceGroup, serviceName string) *Commands {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Commands{
		Runner:        runner,
		Subscription:  subscription,
		ResourceGroup: resourceGroup,
		ServiceName:   serviceName,
	}
}

func (c *Commands) run(ctx context.Context, args ...string) error {
	full := append(args, c.scopeArgs()...)
	out, err := c.Runner.Run(ctx, "az", full...)
	if err != nil {
		return &CommandError{Args: append([]string{"az"}, full...), Output: string(out), Err: err}
	}
	return nil
}

func (c *Commands) scopeArgs() []string {
	return []string{
		"--subscription", c.Subscription,
		"--resource-group", c.ResourceGroup,
		"--service-name", c.ServiceName,
	}
}

func (c *Commands) CreateAPI(ctx context.Context, apiID, title string) error {
	return c.run(ctx, "apic", "api", "create",
		"--api-id", apiID,
		"--title", title,
		"--type", "rest")
}

func (c *Commands) CreateVersion(ctx context.Context, apiID, versionID, stage string) error {
	return c.run(ctx, "apic", "api", "version", "create",
		"--api-id", apiID,
		"--version-id", versionID,
		"--title", versionID,
		"--lifecycle-stage", stage)
}

func (c *Commands) CreateDefinition(ctx context.Context, apiID, versionID, definitionID string) error {
	return c.run(ctx, "apic", "api", "definition", "create",
		"--api-id", apiID,
		"--version-id", versionID,
		"--definition-id", definitionID,
		"--title", "OpenAPI")
}

// ImportSpec imports the discovered document verbatim as an inline
// specification. Content is passed as a single argv element; no shell is
// involved, so no quoting or escaping of the document is needed.
func (c *Commands) ImportSpec(ctx context.Context, apiID, versionID, definitionID, content string) error {
	return c.run(ctx, "apic", "api", "definition", "import-specification",
		"--api-id", apiID,
		"--version-id", versionID,
		"--definition-id", definitionID,
		"--format", "inline",
		"--specification", importSpecificationKind,
		"--value", content)
}

// DeleteAPI removes the disposable API; the governance service cascades the
// delete to its versions and definitions.
func (c *Commands) DeleteAPI(ctx context.Context, apiID string) error {
	return c.run(ctx, "apic", "api", "delete",
		"--api-id", apiID,
		"--yes")
}
