package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Phase is the coarse state of a session.
type Phase string

const (
	PhaseLoggedOut  Phase = "logged_out"
	PhaseFilling    Phase = "filling"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// Session owns all state for one user's pass through the wizard: the loaded
// schema, current values, the active section's errors, and the wizard
// position. Transitions are methods; validation gates Next and Submit but
// never Previous. The zero Session is not usable, construct with New.
type Session struct {
	mu sync.Mutex

	login     LoginService
	submitter Submitter

	phase   Phase
	pending bool

	user    Credentials
	form    schema.Form
	values  map[string]any
	errs    validation.Errors
	index   int
	lastErr string
}

// Option configures a Session.
type Option func(*Session)

// WithLoginService overrides the login collaborator.
func WithLoginService(svc LoginService) Option {
	return func(s *Session) {
		if svc != nil {
			s.login = svc
		}
	}
}

// WithSubmitter overrides the submission collaborator.
func WithSubmitter(sub Submitter) Option {
	return func(s *Session) {
		if sub != nil {
			s.submitter = sub
		}
	}
}

// New constructs a logged-out session. Both collaborators are required,
// either via options or by wiring a Simulator for local use.
func New(options ...Option) (*Session, error) {
	s := &Session{
		phase: PhaseLoggedOut,
		errs:  make(validation.Errors),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.login == nil {
		return nil, fmt.Errorf("wizard: login service is required")
	}
	if s.submitter == nil {
		return nil, fmt.Errorf("wizard: submitter is required")
	}
	return s, nil
}

// Login validates the credentials locally, then asks the login collaborator
// for the session's schema. On success the session moves to the first
// section with every field at its default value. On credential failure the
// session stays logged out with field-level errors in Errors; on transport
// failure it stays logged out with the reason in LastFailure.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrPending
	}
	if s.phase != PhaseLoggedOut {
		s.mu.Unlock()
		return ErrAlreadyLoggedIn
	}

	errs := make(validation.Errors)
	if strings.TrimSpace(creds.Identifier) == "" {
		errs[CredentialIdentifier] = validation.MsgRequired
	}
	if strings.TrimSpace(creds.DisplayName) == "" {
		errs[CredentialDisplayName] = validation.MsgRequired
	}
	if len(errs) > 0 {
		s.errs = errs
		s.mu.Unlock()
		return ErrValidation
	}

	s.pending = true
	s.mu.Unlock()

	form, err := s.login.Login(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("wizard: login: %w", err)
	}

	s.user = creds
	s.form = form
	s.values = schema.DefaultValues(form)
	s.errs = make(validation.Errors)
	s.index = 0
	s.lastErr = ""
	s.phase = PhaseFilling
	return nil
}

// SetValue overwrites a field's value without validating it and clears that
// field's error entry, leaving every other error untouched. Full
// re-validation only happens on Next or Submit.
func (s *Session) SetValue(fieldID string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrPending
	}
	if s.phase != PhaseFilling {
		return s.notFilling()
	}
	if _, ok := s.form.FieldByID(fieldID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, fieldID)
	}

	s.values[fieldID] = value
	delete(s.errs, fieldID)
	return nil
}

// Next validates the current section and, when clean, advances to the next
// one, discarding the completed section's errors. On validation failure the
// session stays put with the fresh error map.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrPending
	}
	if s.phase != PhaseFilling {
		return s.notFilling()
	}
	if s.index >= s.form.NumSections()-1 {
		return ErrLastSection
	}

	errs, ok := validation.Section(s.form, s.index, s.values)
	s.errs = errs
	if !ok {
		return ErrValidation
	}

	s.index++
	return nil
}

// Previous moves back one section unconditionally. Values are kept; the
// error map is cleared because errors only ever describe the active section.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrPending
	}
	if s.phase != PhaseFilling {
		return s.notFilling()
	}
	if s.index == 0 {
		return ErrFirstSection
	}

	s.index--
	s.errs = make(validation.Errors)
	return nil
}

// Submit validates the final section and hands the value snapshot to the
// submission collaborator. While the call is in flight the session is in
// PhaseSubmitting and rejects all other transitions. A transport failure
// returns the session to the last section with the reason in LastFailure;
// values survive so the user can retry.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrPending
	}
	if s.phase != PhaseFilling {
		defer s.mu.Unlock()
		return s.notFilling()
	}
	if s.index != s.form.NumSections()-1 {
		s.mu.Unlock()
		return ErrNotLastSection
	}

	errs, ok := validation.Section(s.form, s.index, s.values)
	s.errs = errs
	if !ok {
		s.mu.Unlock()
		return ErrValidation
	}

	s.pending = true
	s.phase = PhaseSubmitting
	formID := s.form.ID
	snapshot := cloneValues(s.values)
	s.mu.Unlock()

	err := s.submitter.Submit(ctx, formID, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if err != nil {
		s.phase = PhaseFilling
		s.lastErr = err.Error()
		return fmt.Errorf("wizard: submit: %w", err)
	}

	s.phase = PhaseSubmitted
	s.lastErr = ""
	return nil
}

// Reset clears the whole session (schema, values, errors, position) and
// returns to the logged-out state.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrPending
	}
	if s.phase == PhaseLoggedOut {
		return ErrNotLoggedIn
	}

	s.user = Credentials{}
	s.form = schema.Form{}
	s.values = nil
	s.errs = make(validation.Errors)
	s.index = 0
	s.lastErr = ""
	s.phase = PhaseLoggedOut
	return nil
}

// Phase reports the session's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// User returns the credentials of the logged-in user.
func (s *Session) User() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Form returns the loaded schema. Zero value while logged out.
func (s *Session) Form() schema.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SectionIndex reports the active section, 0-based.
func (s *Session) SectionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// CurrentSection returns the active section of the schema.
func (s *Session) CurrentSection() (schema.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseLoggedOut {
		return schema.Section{}, ErrNotLoggedIn
	}
	return s.form.Section(s.index)
}

// Values returns a snapshot of the current value map.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValues(s.values)
}

// Value returns the current value for one field.
func (s *Session) Value(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[fieldID]
	return v, ok
}

// Errors returns a snapshot of the active error map. While logged out it
// carries login gate errors keyed by CredentialIdentifier and
// CredentialDisplayName.
func (s *Session) Errors() validation.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.Clone()
}

// LastFailure returns the most recent login or submission transport failure
// reason, empty when the last round trip succeeded.
func (s *Session) LastFailure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// notFilling maps the phase to the most specific sentinel. Callers hold the
// lock.
func (s *Session) notFilling() error {
	switch s.phase {
	case PhaseLoggedOut:
		return ErrNotLoggedIn
	case PhaseSubmitting:
		return ErrPending
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrNotLoggedIn
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
