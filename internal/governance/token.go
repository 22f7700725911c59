package governance

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

type AuthTokenSource string

const (
	AuthTokenSourceExplicit AuthTokenSource = "explicit"
	AuthTokenSourceEnv      AuthTokenSource = "env"
	AuthTokenSourcePlatform AuthTokenSource = "az"
)

// tokenGroup collapses concurrent token resolutions into one CLI invocation.
var tokenGroup singleflight.Group

// ResolveAuthToken resolves a management-plane access token.
//
// Precedence:
//  1. provided (if non-empty)
//  2. AZURE_ACCESS_TOKEN / ARM_ACCESS_TOKEN env vars
//  3. platform CLI: `az account get-access-token`
//
// It never prints the token.
func ResolveAuthToken(ctx context.Context, provided string) (token string, source AuthTokenSource, err error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, AuthTokenSourceExplicit, nil
	}

	for _, name := range []string{"AZURE_ACCESS_TOKEN", "ARM_ACCESS_TOKEN"} {
		if env := strings.TrimSpace(os.Getenv(name)); env != "" {
			return env, AuthTokenSourceEnv, nil
		}
	}

	tok, ok, err := tokenFromPlatformCLI(ctx)
	if err != nil {
		return "", "", err
	}
	if ok {
		return tok, AuthTokenSourcePlatform, nil
	}
	return "", "", nil
}

func tokenFromPlatformCLI(ctx context.Context) (token string, ok bool, err error) {
	_, lookErr := exec.LookPath("az")
	if lookErr != nil {
		return "", false, nil
	}

	v, runErr, _ := tokenGroup.Do("az-access-token", func() (any, error) {
		// Keep this bounded so a broken az config or credential helper doesn't
		// hang runs.
		cmdCtx := ctx
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			cmdCtx, cancel = context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
		}

		cmd := exec.CommandContext(cmdCtx, "az", "account", "get-access-token", "--query", "accessToken", "--output", "tsv")
		out, runErr := cmd.Output()
		if runErr != nil {
			// If the context was canceled or timed out, surface that to callers.
			if cmdCtx.Err() != nil {
				return "", cmdCtx.Err()
			}
			// If az is present but not logged in, or otherwise fails, treat as
			// "no token". We don't surface the raw az output to avoid leaking
			// any sensitive context.
			return "", nil
		}
		return strings.TrimSpace(string(out)), nil
	})
	if runErr != nil {
		return "", false, runErr
	}

	tok, _ := v.(string)
	if tok == "" {
		return "", false, nil
	}

	// Basic sanity: tokens must not contain whitespace.
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", false, errors.New("invalid token returned by az: contains whitespace")
	}

	return tok, true, nil
}
