package agent

import (
	"math/rand"

	"vacuumworld/internal/domain"
)

// Random picks uniformly among all six actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy with its own RNG.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string        { return "random" }
func (r *Random) Description() string { return "picks actions uniformly at random" }

func (r *Random) Next(p domain.Perception) domain.Action {
	return domain.Actions[r.rng.Intn(len(domain.Actions))]
}
