// Package agent provides pluggable decision policies. A policy maps the
// current perception to the next action; it never talks to the server
// itself and keeps at most its own memory and RNG.
package agent

import (
	"fmt"
	"sort"

	"vacuumworld/internal/domain"
)

// Policy chooses the next action from a perception.
type Policy interface {
	// Name identifies the policy, e.g. in recordings.
	Name() string
	// Description is a one-line summary of the strategy.
	Description() string
	// Next returns the action to submit for the given perception. It is
	// not called once the perception reports a finished session.
	Next(p domain.Perception) domain.Action
}

type factory func(seed int64) Policy

var policies = map[string]factory{
	"random": func(seed int64) Policy { return NewRandom(seed) },
	"reflex": func(seed int64) Policy { return NewReflex(seed) },
	"wall":   func(seed int64) Policy { return NewWall(seed) },
}

// ByName constructs the named policy with the given RNG seed.
func ByName(name string, seed int64) (Policy, error) {
	f, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (available: %v)", name, Names())
	}
	return f(seed), nil
}

// Names lists the available policy names, sorted.
func Names() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var movements = []domain.Action{
	domain.ActionUp, domain.ActionRight, domain.ActionDown, domain.ActionLeft,
}
