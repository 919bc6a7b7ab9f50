package logging

import (
	"fmt"
	"runtime/debug"
)

// RecoveryHandler converts panics into errors with a logged stack trace.
// Parsing arbitrary user files should never take the process down.
type RecoveryHandler struct {
	Component string
	OnPanic   func(rec any, stack string)
}

// NewRecoveryHandler creates a recovery handler for a component
func NewRecoveryHandler(component string) *RecoveryHandler {
	return &RecoveryHandler{Component: component}
}

// WrapError executes fn with panic recovery, returning error on panic
func (r *RecoveryHandler) WrapError(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := string(debug.Stack())
			err = r.handlePanic(rec, stack)
		}
	}()
	return fn()
}

func (r *RecoveryHandler) handlePanic(rec any, stack string) error {
	log := New(r.Component)
	log.Error("panic_recovered", map[string]any{"stack": stack},
		fmt.Errorf("panic: %v", rec))
	if r.OnPanic != nil {
		r.OnPanic(rec, stack)
	}
	return fmt.Errorf("panic in %s: %v", r.Component, rec)
}
