package governance

import (
	"context"
	"testing"
)

func TestResolveAuthTokenExplicitWins(t *testing.T) {
	t.Setenv("AZURE_ACCESS_TOKEN", "env-token")

	tok, source, err := ResolveAuthToken(context.Background(), "  explicit-token  ")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "explicit-token" {
		t.Errorf("expected trimmed explicit token, got %q", tok)
	}
	if source != AuthTokenSourceExplicit {
		t.Errorf("expected explicit source, got %s", source)
	}
}

func TestResolveAuthTokenFromEnv(t *testing.T) {
	t.Setenv("AZURE_ACCESS_TOKEN", "")
	t.Setenv("ARM_ACCESS_TOKEN", "arm-token")

	tok, source, err := ResolveAuthToken(context.Background(), "")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "arm-token" {
		t.Errorf("expected ARM_ACCESS_TOKEN value, got %q", tok)
	}
	if source != AuthTokenSourceEnv {
		t.Errorf("expected env source, got %s", source)
	}
}

func TestResolveAuthTokenEnvPrecedence(t *testing.T) {
	t.Setenv("AZURE_ACCESS_TOKEN", "azure-token")
	t.Setenv("ARM_ACCESS_TOKEN", "arm-token")

	tok, _, err := ResolveAuthToken(context.Background(), "")
	if err != nil {
		t.Fatalf("ResolveAuthToken failed: %v", err)
	}
	if tok != "azure-token" {
		t.Errorf("expected AZURE_ACCESS_TOKEN to win, got %q", tok)
	}
}
