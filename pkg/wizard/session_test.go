package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

func registrationForm() schema.Form {
	return schema.Form{
		ID:    "registration",
		Title: "Registration",
		Sections: []schema.Section{
			{
				Title: "Identity",
				Fields: []schema.Field{
					{ID: "fullName", Kind: schema.FieldKindText, Required: true},
					{ID: "email", Kind: schema.FieldKindEmail, Required: true},
				},
			},
			{
				Title: "Contact",
				Fields: []schema.Field{
					{ID: "phone", Kind: schema.FieldKindTel},
					{ID: "newsletter", Kind: schema.FieldKindCheckbox},
				},
			},
			{
				Title: "Finish",
				Fields: []schema.Field{
					{ID: "referral", Kind: schema.FieldKindText, Required: true},
				},
			},
		},
	}
}

func newTestSession(t *testing.T, simOpts ...SimulatorOption) *Session {
	t.Helper()
	opts := append([]SimulatorOption{WithLatency(0)}, simOpts...)
	sim := NewSimulator(registrationForm(), opts...)
	session, err := New(WithLoginService(sim), WithSubmitter(sim))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func mustLogin(t *testing.T, s *Session) {
	t.Helper()
	err := s.Login(context.Background(), Credentials{Identifier: "ada", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
}

func fillIdentity(t *testing.T, s *Session) {
	t.Helper()
	if err := s.SetValue("fullName", "Ada Lovelace"); err != nil {
		t.Fatalf("set fullName: %v", err)
	}
	if err := s.SetValue("email", "ada@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
}

func TestLoginRejectsEmptyIdentifier(t *testing.T) {
	s := newTestSession(t)

	err := s.Login(context.Background(), Credentials{Identifier: "", DisplayName: "x"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := s.Phase(); got != PhaseLoggedOut {
		t.Fatalf("expected logged out, got %s", got)
	}

	errs := s.Errors()
	if !errs.Has(CredentialIdentifier) {
		t.Fatalf("expected identifier error, got %v", errs)
	}
	if errs.Has(CredentialDisplayName) {
		t.Fatalf("displayName should have no error, got %v", errs)
	}
}

func TestLoginReportsBothCredentialErrors(t *testing.T) {
	s := newTestSession(t)

	if err := s.Login(context.Background(), Credentials{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	errs := s.Errors()
	if !errs.Has(CredentialIdentifier) || !errs.Has(CredentialDisplayName) {
		t.Fatalf("expected both credential errors, got %v", errs)
	}
}

func TestLoginLoadsSchemaWithDefaults(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	if got := s.Phase(); got != PhaseFilling {
		t.Fatalf("expected filling, got %s", got)
	}
	if got := s.SectionIndex(); got != 0 {
		t.Fatalf("expected section 0, got %d", got)
	}

	want := map[string]any{
		"fullName":   "",
		"email":      "",
		"phone":      "",
		"newsletter": false,
		"referral":   "",
	}
	if diff := cmp.Diff(want, s.Values()); diff != "" {
		t.Fatalf("default values mismatch (-want +got):\n%s", diff)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected clean error map after login")
	}
}

func TestLoginTransportFailure(t *testing.T) {
	s := newTestSession(t, WithLoginFailure("directory unavailable"))

	err := s.Login(context.Background(), Credentials{Identifier: "ada", DisplayName: "Ada"})
	if err == nil {
		t.Fatalf("expected login failure")
	}
	if got := s.Phase(); got != PhaseLoggedOut {
		t.Fatalf("expected logged out after transport failure, got %s", got)
	}
	if got := s.LastFailure(); got != "directory unavailable" {
		t.Fatalf("expected failure reason, got %q", got)
	}

	// Retry succeeds on a working transport once the session is rebuilt.
	if !errors.Is(s.Next(), ErrNotLoggedIn) {
		t.Fatalf("navigation must stay locked while logged out")
	}
}

func TestSecondLoginRejected(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	err := s.Login(context.Background(), Credentials{Identifier: "bob", DisplayName: "Bob"})
	if !errors.Is(err, ErrAlreadyLoggedIn) {
		t.Fatalf("expected ErrAlreadyLoggedIn, got %v", err)
	}
}

func TestNextBlocksOnInvalidSection(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	if err := s.Next(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := s.SectionIndex(); got != 0 {
		t.Fatalf("expected to stay on section 0, got %d", got)
	}

	errs := s.Errors()
	if !errs.Has("fullName") || !errs.Has("email") {
		t.Fatalf("expected both required errors, got %v", errs)
	}
}

func TestNextAdvancesAndClearsErrors(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	_ = s.Next() // seed errors
	fillIdentity(t, s)

	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if got := s.SectionIndex(); got != 1 {
		t.Fatalf("expected section 1, got %d", got)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("errors from a completed section must be discarded")
	}
}

func TestSetValueClearsOnlyThatError(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)
	_ = s.Next() // both fields now carry errors

	if err := s.SetValue("email", "still-bad"); err != nil {
		t.Fatalf("set email: %v", err)
	}

	errs := s.Errors()
	if errs.Has("email") {
		t.Fatalf("changing a value must clear its error, got %v", errs)
	}
	if !errs.Has("fullName") {
		t.Fatalf("other errors must be untouched, got %v", errs)
	}
}

func TestSetValueUnknownField(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	if err := s.SetValue("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestPreviousIsUnconditional(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)
	fillIdentity(t, s)
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	// Leave section 1 with a bad phone value; Previous must not validate.
	if err := s.SetValue("phone", "123"); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if err := s.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if got := s.SectionIndex(); got != 0 {
		t.Fatalf("expected section 0, got %d", got)
	}
	if v, _ := s.Value("phone"); v != "123" {
		t.Fatalf("previous must not clear values, got %v", v)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("errors must only describe the active section")
	}
}

func TestPreviousFromFirstSection(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	if err := s.Previous(); !errors.Is(err, ErrFirstSection) {
		t.Fatalf("expected ErrFirstSection, got %v", err)
	}
}

func TestPreviousThenNextRoundTrip(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)
	fillIdentity(t, s)
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	if err := s.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next after previous: %v", err)
	}
	if got := s.SectionIndex(); got != 1 {
		t.Fatalf("expected to land back on section 1, got %d", got)
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected empty error map, got %v", s.Errors())
	}
}

func TestNextFromLastSection(t *testing.T) {
	s := walkToLastSection(t)
	if err := s.Next(); !errors.Is(err, ErrLastSection) {
		t.Fatalf("expected ErrLastSection, got %v", err)
	}
}

func TestSubmitOnlyFromLastSection(t *testing.T) {
	s := newTestSession(t)
	mustLogin(t, s)

	if err := s.Submit(context.Background()); !errors.Is(err, ErrNotLastSection) {
		t.Fatalf("expected ErrNotLastSection, got %v", err)
	}
}

func TestSubmitBlocksOnInvalidLastSection(t *testing.T) {
	s := walkToLastSection(t)

	err := s.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := s.Phase(); got != PhaseFilling {
		t.Fatalf("submitting must never start on a dirty section, got %s", got)
	}

	want := validation.Errors{"referral": validation.MsgRequired}
	if diff := cmp.Diff(want, s.Errors()); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitSuccess(t *testing.T) {
	s := walkToLastSection(t)
	if err := s.SetValue("referral", "a friend"); err != nil {
		t.Fatalf("set referral: %v", err)
	}

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := s.Phase(); got != PhaseSubmitted {
		t.Fatalf("expected submitted, got %s", got)
	}
	if !errors.Is(s.SetValue("referral", "late edit"), ErrAlreadySubmitted) {
		t.Fatalf("edits must be rejected after submission")
	}
}

func TestSubmitTransportFailureKeepsValues(t *testing.T) {
	s := walkToLastSectionWith(t, WithSubmitFailure("backend down"))
	if err := s.SetValue("referral", "a friend"); err != nil {
		t.Fatalf("set referral: %v", err)
	}

	err := s.Submit(context.Background())
	if err == nil {
		t.Fatalf("expected submission failure")
	}
	if got := s.Phase(); got != PhaseFilling {
		t.Fatalf("expected to return to filling, got %s", got)
	}
	if got := s.SectionIndex(); got != 2 {
		t.Fatalf("expected to stay on the last section, got %d", got)
	}
	if got := s.LastFailure(); got != "backend down" {
		t.Fatalf("expected failure reason, got %q", got)
	}
	if v, _ := s.Value("fullName"); v != "Ada Lovelace" {
		t.Fatalf("transport failure must not corrupt values, got %v", v)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := walkToLastSection(t)
	if err := s.SetValue("referral", "a friend"); err != nil {
		t.Fatalf("set referral: %v", err)
	}
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := s.Phase(); got != PhaseLoggedOut {
		t.Fatalf("expected logged out, got %s", got)
	}
	if len(s.Values()) != 0 {
		t.Fatalf("expected values cleared, got %v", s.Values())
	}
	if len(s.Errors()) != 0 {
		t.Fatalf("expected errors cleared, got %v", s.Errors())
	}
	if s.Form().ID != "" {
		t.Fatalf("expected schema cleared")
	}

	// A fresh login works on the same session object.
	mustLogin(t, s)
	if got := s.SectionIndex(); got != 0 {
		t.Fatalf("expected section 0 after relogin, got %d", got)
	}
}

func TestResetWhileLoggedOut(t *testing.T) {
	s := newTestSession(t)
	if err := s.Reset(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

// blockingSubmitter holds the submission open until released, so tests can
// observe the in-flight phase.
type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSubmitter) Submit(ctx context.Context, _ string, _ map[string]any) error {
	close(b.entered)
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestTransitionsRejectedWhileSubmitting(t *testing.T) {
	sim := NewSimulator(registrationForm(), WithLatency(0))
	blocker := &blockingSubmitter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, err := New(WithLoginService(sim), WithSubmitter(blocker))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	mustLogin(t, s)
	fillIdentity(t, s)
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := s.SetValue("referral", "a friend"); err != nil {
		t.Fatalf("set referral: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(context.Background())
	}()

	select {
	case <-blocker.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("submitter was never invoked")
	}

	if got := s.Phase(); got != PhaseSubmitting {
		t.Fatalf("expected submitting phase, got %s", got)
	}
	if err := s.Next(); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending for Next, got %v", err)
	}
	if err := s.Previous(); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending for Previous, got %v", err)
	}
	if err := s.Submit(context.Background()); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending for duplicate Submit, got %v", err)
	}

	close(blocker.release)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := s.Phase(); got != PhaseSubmitted {
		t.Fatalf("expected submitted, got %s", got)
	}
}

func walkToLastSection(t *testing.T) *Session {
	t.Helper()
	return walkToLastSectionWith(t)
}

func walkToLastSectionWith(t *testing.T, simOpts ...SimulatorOption) *Session {
	t.Helper()
	s := newTestSession(t, simOpts...)
	mustLogin(t, s)
	fillIdentity(t, s)
	if err := s.Next(); err != nil {
		t.Fatalf("next to section 1: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next to section 2: %v", err)
	}
	return s
}
