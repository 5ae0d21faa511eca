package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies why an action was refused or failed.
type Kind int

const (
	// ConfigurationMissing: a required role or channel is not configured for the guild.
	ConfigurationMissing Kind = iota + 1
	// AuthorizationDenied: the actor (or the bot) lacks a role, a capability, or is not the claimant.
	AuthorizationDenied
	// InvalidStateTransition: the question is not in the state the action requires.
	InvalidStateTransition
	// NotFound: the referenced question or guild does not exist.
	NotFound
	// TransientIO: a store or platform call failed; the mutation was not applied.
	TransientIO
)

func (k Kind) String() string {
	switch k {
	case ConfigurationMissing:
		return "configuration_missing"
	case AuthorizationDenied:
		return "authorization_denied"
	case InvalidStateTransition:
		return "invalid_state_transition"
	case NotFound:
		return "not_found"
	case TransientIO:
		return "transient_io"
	default:
		return "unknown"
	}
}

// Error is a structured denial or failure. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Transient wraps an unexpected store or platform failure.
func Transient(action string, err error) *Error {
	return &Error{
		Kind:    TransientIO,
		Message: "Something went wrong while running " + action + ", please try again later.",
		Err:     err,
	}
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
