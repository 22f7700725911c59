package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONSink writes the machine-readable report.
type JSONSink struct {
	path string
}

func NewJSONSink(path string) (*JSONSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	return &JSONSink{path: path}, nil
}

func (s *JSONSink) Emit(r *ValidationReport) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(r)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// MarkdownSink writes the human-readable report.
type MarkdownSink struct {
	path string
}

func NewMarkdownSink(path string) (*MarkdownSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	return &MarkdownSink{path: path}, nil
}

func (s *MarkdownSink) Emit(r *ValidationReport) error {
	return os.WriteFile(s.path, []byte(RenderMarkdown(r)), 0o644)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return nil
}
