// Package wizard implements the section-by-section navigation state machine
// behind a multi-step form: a login gate, forward navigation guarded by
// section validation, unconditional backward navigation, and a submission
// step backed by a pluggable transport. All session state (loaded schema,
// field values, field errors, wizard position) lives in a single Session
// object with an explicit Reset, so a session can never be partially cleared.
package wizard
