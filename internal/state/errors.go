package state

import (
	"errors"
	"fmt"
)

// ErrCode categorizes state store errors.
type ErrCode string

const (
	// ErrCodeUnknownControl indicates the control id resolves to
	// neither a built-in nor an active custom control.
	ErrCodeUnknownControl ErrCode = "UNKNOWN_CONTROL"

	// ErrCodeInvalidAnswer indicates an answer outside the allowed set.
	ErrCodeInvalidAnswer ErrCode = "INVALID_ANSWER"

	// ErrCodeInvalidControl indicates a custom control definition
	// missing required fields.
	ErrCodeInvalidControl ErrCode = "INVALID_CONTROL"
)

// StateError is a caller-contract violation detected by the store.
// Nothing else in the store returns errors to callers: storage and
// remote failures degrade silently per the error-handling design.
type StateError struct {
	Code      ErrCode
	Message   string
	ControlID string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	if e.ControlID != "" {
		return fmt.Sprintf("%s: %s (control=%s)", e.Code, e.Message, e.ControlID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownControl reports whether err is an unknown-control error.
func IsUnknownControl(err error) bool {
	var se *StateError
	return errors.As(err, &se) && se.Code == ErrCodeUnknownControl
}

func errUnknownControl(controlID string) *StateError {
	return &StateError{
		Code:      ErrCodeUnknownControl,
		Message:   "no built-in or active custom control with this id",
		ControlID: controlID,
	}
}
