package tool

import (
	"errors"
	"fmt"
)

// Domain errors for the tool system.
var (
	// ErrEmptyName indicates a tool was created with an empty name.
	ErrEmptyName = errors.New("tool name cannot be empty")

	// ErrNoHandler indicates a tool was created without a handler.
	ErrNoHandler = errors.New("tool has no handler")

	// ErrToolExists indicates a tool with the same name already exists.
	ErrToolExists = errors.New("tool already exists")
)

// ErrorKind classifies failures raised inside a tool.
type ErrorKind int

const (
	// KindUpstream is a network or API failure reported by the upstream service.
	KindUpstream ErrorKind = iota
	// KindMalformedInput is a composite argument that could not be parsed.
	KindMalformedInput
	// KindInvalidTarget is a well-formed request for the wrong kind of object.
	KindInvalidTarget
	// KindAuthentication is a credential rejected by the upstream service.
	KindAuthentication
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUpstream:
		return "upstream"
	case KindMalformedInput:
		return "malformed_input"
	case KindInvalidTarget:
		return "invalid_target"
	case KindAuthentication:
		return "authentication"
	default:
		return "unknown"
	}
}

// Error is a classified tool failure.
//
// Upstream and authentication errors render as "Error <Action>: <cause>".
// Malformed-input and invalid-target errors render as "Error: <Message>".
type Error struct {
	Kind    ErrorKind
	Action  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMalformedInput, KindInvalidTarget:
		return "Error: " + e.Message
	default:
		cause := e.Message
		if e.Err != nil {
			cause = e.Err.Error()
		}
		return fmt.Sprintf("Error %s: %s", e.Action, cause)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Malformed returns a malformed-input error with a fixed message.
func Malformed(message string) *Error {
	return &Error{Kind: KindMalformedInput, Message: message}
}

// InvalidTarget returns an invalid-target error with a fixed message.
func InvalidTarget(message string) *Error {
	return &Error{Kind: KindInvalidTarget, Message: message}
}

// Upstream wraps err as a failure of the named action.
func Upstream(action string, err error) *Error {
	return &Error{Kind: KindUpstream, Action: action, Err: err}
}

// KindOf reports the kind of err, or KindUpstream if err is not a *Error.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUpstream
}

// Stringify converts err into the string payload returned to the caller.
func Stringify(err error) string {
	if err == nil {
		return ""
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Error()
	}
	return "Error: " + err.Error()
}
