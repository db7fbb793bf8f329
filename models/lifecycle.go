package models

import (
	"errors"
	"fmt"
)

// LifecycleState is the visibility state of a counter
type LifecycleState string

const (
	LifecycleStateActive   LifecycleState = "active"
	LifecycleStateArchived LifecycleState = "archived"
	LifecycleStateDeleted  LifecycleState = "deleted"
)

// ErrInvalidTransition is returned when a lifecycle transition is not allowed
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Valid reports whether s is a known state
func (s LifecycleState) Valid() bool {
	switch s {
	case LifecycleStateActive, LifecycleStateArchived, LifecycleStateDeleted:
		return true
	}
	return false
}

// Transition returns the state reached by moving from s to target.
// Active and Archived toggle freely and both may move to Deleted.
// Deleted is terminal. Moving to the current state is a no-op.
func (s LifecycleState) Transition(target LifecycleState) (LifecycleState, error) {
	if !s.Valid() || !target.Valid() {
		return s, fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, s, target)
	}
	if s == target {
		return s, nil
	}
	if s == LifecycleStateDeleted {
		return s, fmt.Errorf("%w: counter is deleted", ErrInvalidTransition)
	}
	return target, nil
}
