package agent

import (
	"math/rand"

	"vacuumworld/internal/domain"
)

// Wall sucks dirty cells and otherwise keeps its heading until it stops
// making progress (a wall bump), then turns to a different direction.
type Wall struct {
	rng     *rand.Rand
	heading int
	lastPos *domain.Position
}

// NewWall creates a wall-following policy with its own RNG.
func NewWall(seed int64) *Wall {
	w := &Wall{rng: rand.New(rand.NewSource(seed))}
	w.heading = w.rng.Intn(len(movements))
	return w
}

func (w *Wall) Name() string { return "wall" }
func (w *Wall) Description() string {
	return "keeps a heading until it hits a wall, then turns"
}

func (w *Wall) Next(p domain.Perception) domain.Action {
	if p.IsDirty {
		// Turn after cleaning so the next sweep leaves the cell.
		w.heading = w.rng.Intn(len(movements))
		w.lastPos = nil
		return domain.ActionSuck
	}

	pos := p.Position
	if w.lastPos != nil && *w.lastPos == pos {
		// No progress since the last move: pick any other direction.
		next := w.rng.Intn(len(movements) - 1)
		if next >= w.heading {
			next++
		}
		w.heading = next
	}
	w.lastPos = &pos
	return movements[w.heading]
}
