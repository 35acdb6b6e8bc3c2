// Package formwizard wires the pieces of a multi-step form session together:
// a declarative schema (pkg/schema), per-section validation (pkg/validation),
// the navigation state machine (pkg/wizard), and terminal/HTML presentation
// (pkg/renderers). The root package re-exports the common types and offers
// one-call helpers for the typical local setup.
package formwizard

import (
	"context"
	_ "embed"

	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Re-exported schema types for callers that only need the root package.
type (
	Form      = schema.Form
	Section   = schema.Section
	Field     = schema.Field
	FieldKind = schema.FieldKind
)

// Re-exported session types.
type (
	Session     = wizard.Session
	Credentials = wizard.Credentials
	Phase       = wizard.Phase
)

//go:embed sample_schema.yaml
var sampleSchema []byte

// SampleForm returns the bundled demo registration schema. It panics only if
// the embedded document is broken, which the package's tests rule out.
func SampleForm() Form {
	doc := schema.MustNewDocument(schema.SourceFromFS("sample_schema.yaml"), sampleSchema)
	form, err := schema.Parse(doc)
	if err != nil {
		panic("formwizard: embedded sample schema is invalid: " + err.Error())
	}
	return form
}

// NewSession builds a session backed by simulated collaborators serving the
// given form, the setup used by the CLI and examples. Pass simulator options
// to change latency or inject failures.
func NewSession(form Form, simOpts ...wizard.SimulatorOption) (*Session, error) {
	sim := wizard.NewSimulator(form, simOpts...)
	return wizard.New(
		wizard.WithLoginService(sim),
		wizard.WithSubmitter(sim),
	)
}

// Run drives a simulated session for the given form in the terminal, from
// login through submission.
func Run(ctx context.Context, form Form, options ...tui.Option) (*Session, error) {
	session, err := NewSession(form)
	if err != nil {
		return nil, err
	}
	runner, err := tui.New(session, options...)
	if err != nil {
		return nil, err
	}
	if err := runner.Run(ctx); err != nil {
		return session, err
	}
	return session, nil
}
