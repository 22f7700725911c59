package report

import (
	"errors"
	"fmt"
)

// Sink is a destination for the finalized validation report.
type Sink interface {
	Emit(r *ValidationReport) error
}

// Manager fans the report out to all configured sinks. Sink failures are
// aggregated and reported to the caller, but one failing sink never stops the
// others from receiving the report.
type Manager struct {
	sinks []Sink
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if m == nil {
		return fmt.Errorf("report manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Emit(r *ValidationReport) error {
	if m == nil {
		return fmt.Errorf("report manager is nil")
	}
	if r == nil {
		return fmt.Errorf("report must not be nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Emit(r); err != nil {
			errs = append(errs, fmt.Errorf("emit %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors emitting report: %w", errors.Join(errs...))
	}
	return nil
}
