// Package domain defines the core domain types for the vacuum world service.
package domain

import "fmt"

// Action is one of the six moves an agent can submit.
type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	ActionSuck  Action = "suck"
	ActionIdle  Action = "idle"
)

// Actions lists every valid action in a stable order.
var Actions = []Action{ActionUp, ActionDown, ActionLeft, ActionRight, ActionSuck, ActionIdle}

// ParseAction translates the wire string into an Action. Unknown values
// return ErrInvalidAction; this is the only place strings become actions.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionSuck, ActionIdle:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// IsMovement reports whether the action changes position.
func (a Action) IsMovement() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	}
	return false
}
