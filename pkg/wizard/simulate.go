package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// DefaultSimulatedLatency stands in for a network round trip.
const DefaultSimulatedLatency = 800 * time.Millisecond

// Simulator implements both LoginService and Submitter against a schema held
// in memory, with a fixed artificial latency. It preserves the collaborator
// contracts so a real backend can be substituted without touching the
// session.
type Simulator struct {
	form    schema.Form
	latency time.Duration

	loginFailure  string
	submitFailure string
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithLatency overrides the simulated round-trip delay. Zero disables it,
// which tests rely on.
func WithLatency(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.latency = d
	}
}

// WithLoginFailure makes every login attempt fail with the given reason.
func WithLoginFailure(reason string) SimulatorOption {
	return func(s *Simulator) {
		s.loginFailure = reason
	}
}

// WithSubmitFailure makes every submission fail with the given reason.
func WithSubmitFailure(reason string) SimulatorOption {
	return func(s *Simulator) {
		s.submitFailure = reason
	}
}

// NewSimulator builds a simulator that serves the given form on login.
func NewSimulator(form schema.Form, options ...SimulatorOption) *Simulator {
	s := &Simulator{
		form:    form,
		latency: DefaultSimulatedLatency,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Login waits out the simulated latency and returns the configured form.
func (s *Simulator) Login(ctx context.Context, _ Credentials) (schema.Form, error) {
	if err := s.wait(ctx); err != nil {
		return schema.Form{}, err
	}
	if s.loginFailure != "" {
		return schema.Form{}, errors.New(s.loginFailure)
	}
	return s.form, nil
}

// Submit waits out the simulated latency and discards the snapshot.
func (s *Simulator) Submit(ctx context.Context, _ string, _ map[string]any) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if s.submitFailure != "" {
		return errors.New(s.submitFailure)
	}
	return nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
