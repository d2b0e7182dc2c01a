package agent

import (
	"math/rand"

	"vacuumworld/internal/domain"
)

// Reflex sucks whenever the cell is dirty and otherwise sweeps the grid
// guided by coordinate parity: on even/even cells it heads down or right,
// on odd/odd cells up or left, anywhere else it moves at random.
type Reflex struct {
	rng *rand.Rand
}

// NewReflex creates a reflex policy with its own RNG.
func NewReflex(seed int64) *Reflex {
	return &Reflex{rng: rand.New(rand.NewSource(seed))}
}

func (r *Reflex) Name() string { return "reflex" }
func (r *Reflex) Description() string {
	return "sucks dirty cells, sweeps by coordinate parity otherwise"
}

func (r *Reflex) Next(p domain.Perception) domain.Action {
	if p.IsDirty {
		return domain.ActionSuck
	}

	x, y := p.Position.X, p.Position.Y
	switch {
	case x%2 == 0 && y%2 == 0:
		return r.pick(domain.ActionDown, domain.ActionRight)
	case x%2 != 0 && y%2 != 0:
		return r.pick(domain.ActionUp, domain.ActionLeft)
	default:
		return movements[r.rng.Intn(len(movements))]
	}
}

func (r *Reflex) pick(a, b domain.Action) domain.Action {
	if r.rng.Intn(2) == 0 {
		return a
	}
	return b
}
