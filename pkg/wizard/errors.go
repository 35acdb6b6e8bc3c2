package wizard

import "errors"

var (
	// ErrValidation signals that a transition was blocked by field errors.
	// The session's Errors map carries the per-field messages.
	ErrValidation = errors.New("wizard: validation failed")
	// ErrPending rejects transitions while a login or submission round trip
	// is in flight, preventing duplicate submissions.
	ErrPending = errors.New("wizard: operation already in progress")
	// ErrNotLoggedIn guards operations that require an active session.
	ErrNotLoggedIn = errors.New("wizard: not logged in")
	// ErrAlreadyLoggedIn rejects a second login on a live session.
	ErrAlreadyLoggedIn = errors.New("wizard: session already active")
	// ErrAlreadySubmitted rejects edits and navigation after submission.
	ErrAlreadySubmitted = errors.New("wizard: form already submitted")
	// ErrFirstSection rejects Previous from the first section.
	ErrFirstSection = errors.New("wizard: already on the first section")
	// ErrLastSection rejects Next from the last section.
	ErrLastSection = errors.New("wizard: already on the last section")
	// ErrNotLastSection rejects Submit before the final section.
	ErrNotLastSection = errors.New("wizard: submit is only allowed from the last section")
	// ErrUnknownField rejects value writes for identifiers outside the schema.
	ErrUnknownField = errors.New("wizard: unknown field id")
)
