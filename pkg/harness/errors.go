package harness

import (
	"errors"
	"fmt"
)

// Sentinel errors. All of them are fatal to the current build.
var (
	ErrUnknownPin              = errors.New("harness: pin not found")
	ErrAmbiguousPinLabel       = errors.New("harness: pin label is defined more than once")
	ErrConflictingPinReference = errors.New("harness: pin is defined both in pins and pinlabels, for different pins")
	ErrInvalidWirePort         = errors.New("harness: invalid wire port")
	ErrNoPortSide              = errors.New("harness: no side for loops")
	ErrDuplicateName           = errors.New("harness: duplicate designator")
	ErrUnknownComponent        = errors.New("harness: unknown component")
	ErrInvalidComponent        = errors.New("harness: invalid component definition")
)

// PinError locates a pin resolution failure.
type PinError struct {
	Component string
	Pin       string
	Err       error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("%s:%s: %v", e.Component, e.Pin, e.Err)
}

func (e *PinError) Unwrap() error { return e.Err }

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidComponent, name, fmt.Sprintf(format, args...))
}
