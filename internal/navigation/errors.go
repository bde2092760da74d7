package navigation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an operation is not valid from the current screen.
	ErrInvalidTransition = errors.New("transition not allowed from current screen")
	// ErrInvalidRole is returned for roles other than student or teacher.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUnknownScreen is returned for screen names outside the known set.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrUnknownTab is returned for tab ids outside the bottom bar.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrNotLoggedIn is returned when a screen needs user data that is not set.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden is returned when the session role may not open the screen.
	ErrForbidden = errors.New("screen not available for role")
)

// FieldError reports a login field that was left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// TransitionError describes a rejected controller operation.
type TransitionError struct {
	Op   string
	From Screen
	To   Screen
	Err  error
}

func (e *TransitionError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("%s from %s: %v", e.Op, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }
