package wizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Credentials is the login gate payload. Both values must be non-empty;
// each is validated independently so the caller can surface both errors
// at once.
type Credentials struct {
	Identifier  string
	DisplayName string
}

// Error map keys for login gate failures.
const (
	CredentialIdentifier  = "identifier"
	CredentialDisplayName = "displayName"
)

// LoginService authenticates a user and returns the form schema the session
// will run. Implementations are expected to be slow (network round trip);
// the session blocks on the call and rejects concurrent transitions until it
// resolves.
type LoginService interface {
	Login(ctx context.Context, creds Credentials) (schema.Form, error)
}

// Submitter delivers the final value snapshot. A returned error is surfaced
// as a recoverable submission failure; the session keeps its values so the
// user can retry.
type Submitter interface {
	Submit(ctx context.Context, formID string, values map[string]any) error
}
