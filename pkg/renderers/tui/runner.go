// Package tui drives a wizard session from a terminal: survey-backed prompts
// for the login gate and each section's fields, a navigation menu for
// Next/Previous/Submit, and inline display of validation errors. All form
// logic stays in the wizard package; this package only reads session state
// and feeds user intents back in.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	navContinue = "Continue"
	navSubmit   = "Submit"
	navBack     = "Go back"
)

// Runner walks a wizard session end to end against a prompt driver.
type Runner struct {
	driver  PromptDriver
	session *wizard.Session
	cycler  *ThemeCycler
}

// Option configures a Runner.
type Option func(*Runner)

// WithPromptDriver overrides the default survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithThemeCycler attaches the optional ambient theme cycler.
func WithThemeCycler(cycler *ThemeCycler) Option {
	return func(r *Runner) {
		r.cycler = cycler
	}
}

// New constructs a Runner for the given session.
func New(session *wizard.Session, options ...Option) (*Runner, error) {
	if session == nil {
		return nil, errors.New("tui: session is required")
	}
	r := &Runner{
		driver:  newSurveyDriver(),
		session: session,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Run loops until the user completes (and declines to restart) or aborts.
// The theme cycler, when present, runs for the duration of the call.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.cycler.Start(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch r.session.Phase() {
		case wizard.PhaseLoggedOut:
			if err := r.loginFlow(ctx); err != nil {
				return err
			}
		case wizard.PhaseFilling:
			if err := r.sectionFlow(ctx); err != nil {
				return err
			}
		case wizard.PhaseSubmitted:
			again, err := r.finishFlow(ctx)
			if err != nil {
				return err
			}
			if !again {
				return nil
			}
		default:
			return fmt.Errorf("tui: unexpected phase %q", r.session.Phase())
		}
	}
}

func (r *Runner) loginFlow(ctx context.Context) error {
	if err := r.info(ctx, "Sign in to begin"); err != nil {
		return err
	}

	identifier, err := r.driver.Input(ctx, InputConfig{Message: "Username"})
	if err != nil {
		return err
	}
	displayName, err := r.driver.Input(ctx, InputConfig{Message: "Display name"})
	if err != nil {
		return err
	}

	err = r.session.Login(ctx, wizard.Credentials{
		Identifier:  identifier,
		DisplayName: displayName,
	})
	switch {
	case err == nil:
		return r.info(ctx, fmt.Sprintf("Welcome, %s!", displayName))
	case errors.Is(err, wizard.ErrValidation):
		return r.showErrors(ctx, map[string]string{
			wizard.CredentialIdentifier:  "Username",
			wizard.CredentialDisplayName: "Display name",
		})
	default:
		// Transport failure: recoverable, the outer loop retries.
		return r.errorMsg(ctx, "Sign-in failed: "+r.session.LastFailure())
	}
}

func (r *Runner) sectionFlow(ctx context.Context) error {
	section, err := r.session.CurrentSection()
	if err != nil {
		return err
	}
	index := r.session.SectionIndex()
	total := r.session.Form().NumSections()
	last := index == total-1

	header := fmt.Sprintf("%s — step %d of %d", section.Title, index+1, total)
	if err := r.info(ctx, header); err != nil {
		return err
	}
	if section.Description != "" {
		if err := r.info(ctx, section.Description); err != nil {
			return err
		}
	}

	labels := make(map[string]string, len(section.Fields))
	for _, field := range section.Fields {
		labels[field.ID] = field.DisplayLabel()
		if err := r.promptField(ctx, field); err != nil {
			return err
		}
	}

	choice, err := r.navChoice(ctx, index, last)
	if err != nil {
		return err
	}

	switch choice {
	case navBack:
		return r.session.Previous()
	case navSubmit:
		err := r.session.Submit(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, wizard.ErrValidation):
			return r.showErrors(ctx, labels)
		default:
			return r.errorMsg(ctx, "Submission failed: "+r.session.LastFailure())
		}
	default: // navContinue
		err := r.session.Next()
		if errors.Is(err, wizard.ErrValidation) {
			return r.showErrors(ctx, labels)
		}
		return err
	}
}

func (r *Runner) finishFlow(ctx context.Context) (bool, error) {
	title := r.session.Form().Title
	if title == "" {
		title = "your response"
	}
	if err := r.info(ctx, fmt.Sprintf("Thanks! %s was submitted.", title)); err != nil {
		return false, err
	}

	again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Start another response?"})
	if err != nil {
		return false, err
	}
	if !again {
		return false, nil
	}
	return true, r.session.Reset()
}

// promptField dispatches on the field kind. The switch is exhaustive over
// schema.FieldKind; new kinds must be handled here and in validation.
func (r *Runner) promptField(ctx context.Context, field schema.Field) error {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	help := field.Description
	if help == "" {
		help = field.Placeholder
	}

	current, _ := r.session.Value(field.ID)

	var (
		value any
		err   error
	)
	switch field.Kind {
	case schema.FieldKindText, schema.FieldKindEmail, schema.FieldKindTel, schema.FieldKindDate:
		value, err = r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: stringValue(current),
			Help:    help,
		})
	case schema.FieldKindTextarea:
		value, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: stringValue(current),
			Help:    help,
		})
	case schema.FieldKindSelect, schema.FieldKindRadio:
		value, err = r.promptChoice(ctx, field, label, help, stringValue(current))
	case schema.FieldKindCheckbox:
		checked, _ := current.(bool)
		value, err = r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: checked,
			Help:    help,
		})
	default:
		return fmt.Errorf("tui: unsupported field kind %q", field.Kind)
	}
	if err != nil {
		return err
	}

	return r.session.SetValue(field.ID, value)
}

func (r *Runner) promptChoice(ctx context.Context, field schema.Field, label, help, current string) (string, error) {
	options := make([]string, 0, len(field.Options))
	defaultIndex := 0
	for i, option := range field.Options {
		options = append(options, option.Display())
		if option.Value == current && current != "" {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", fmt.Errorf("tui: select returned index %d for %d options", idx, len(options))
	}
	return field.Options[idx].Value, nil
}

func (r *Runner) navChoice(ctx context.Context, index int, last bool) (string, error) {
	forward := navContinue
	if last {
		forward = navSubmit
	}
	options := []string{forward}
	if index > 0 {
		options = append(options, navBack)
	}
	if len(options) == 1 {
		return forward, nil
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: "What next?",
		Options: options,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: select returned index %d for %d options", idx, len(options))
	}
	return options[idx], nil
}

// showErrors prints the session's current error map using display labels
// where known.
func (r *Runner) showErrors(ctx context.Context, labels map[string]string) error {
	errs := r.session.Errors()
	for _, id := range errs.Fields() {
		label := labels[id]
		if label == "" {
			label = id
		}
		if err := r.errorMsg(ctx, fmt.Sprintf("%s: %s", label, errs[id])); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, decorate(r.cycler.Token(TokenInfoPrefix), msg))
}

func (r *Runner) errorMsg(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, decorate(r.cycler.Token(TokenErrorPrefix), msg))
}

// stringValue narrows a stored value for prompts that edit text. Non-string
// values (checkbox booleans) render as an empty default.
func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func decorate(prefix, msg string) string {
	if strings.TrimSpace(prefix) == "" {
		return msg
	}
	return prefix + " " + msg
}
