package component

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration and lifecycle conditions.
var (
	// ErrGone is returned by Updater.Update once the view model's render
	// stream has been closed, normally because its component was
	// disconnected. The attempted mutation is not applied.
	ErrGone = errors.New("component: view model gone")

	// ErrAlreadyDefined is returned when a name is defined twice.
	ErrAlreadyDefined = errors.New("component: already defined")

	// ErrInvalidName is returned for names that are not valid custom element names.
	ErrInvalidName = errors.New("component: invalid custom element name")

	// ErrNotDefined is returned when creating an element for an unknown name.
	ErrNotDefined = errors.New("component: not defined")

	// ErrNoInit is returned when a definition has no init function.
	ErrNoInit = errors.New("component: definition has no init function")

	// ErrNoHooks is returned by Bind for documents without custom element support.
	ErrNoHooks = errors.New("component: document does not support custom element callbacks")

	// ErrNoShadowHost is returned when a shadow-hosted component is mounted on
	// an element that cannot host a shadow root.
	ErrNoShadowHost = errors.New("component: element cannot host a shadow root")
)

// InstanceError wraps an error with component context.
type InstanceError struct {
	Name string
	Op   string // Operation that failed
	Err  error  // Underlying error
}

// Error returns the error message with component context.
func (e *InstanceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("component: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("component: %s: %s: %v", e.Name, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *InstanceError) Unwrap() error {
	return e.Err
}
