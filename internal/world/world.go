// Package world implements the grid simulation state machine: one agent on a
// bounded rectangle of dirt flags, a step budget, and a terminal state that
// is entered exactly once.
package world

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"vacuumworld/internal/domain"
)

// MaxSteps is the step budget of every world. An accepted action always
// consumes one step; the budget is never extended.
const MaxSteps = 1000

const (
	minSize = 1
	maxSize = 256
)

// Params are the construction parameters of a world.
type Params struct {
	Width    int
	Height   int
	InitX    int
	InitY    int
	DirtRate float64
	// Seed selects the dirt layout. When nil the world draws a seed from
	// the wall clock and keeps it, so the layout stays reproducible.
	Seed *int64
}

// Validate checks construction bounds without creating any state.
func (p Params) Validate() error {
	if p.Width < minSize || p.Width > maxSize || p.Height < minSize || p.Height > maxSize {
		return fmt.Errorf("%w: size must be within [%d,%d], got %dx%d",
			domain.ErrInvalidParameter, minSize, maxSize, p.Width, p.Height)
	}
	if p.InitX < 0 || p.InitX >= p.Width || p.InitY < 0 || p.InitY >= p.Height {
		return fmt.Errorf("%w: initial position (%d,%d) outside %dx%d grid",
			domain.ErrInvalidParameter, p.InitX, p.InitY, p.Width, p.Height)
	}
	if p.DirtRate < 0 || p.DirtRate > 1 {
		return fmt.Errorf("%w: dirt rate must be within [0,1], got %v",
			domain.ErrInvalidParameter, p.DirtRate)
	}
	return nil
}

// World is the simulation state machine for one session. It is not
// internally synchronized; callers serialize access per instance.
type World struct {
	width  int
	height int

	dirt        []bool // row-major, index y*width+x
	dirtCount   int
	initialDirt int

	pos         domain.Position
	performance int
	stepsTaken  int
	reason      domain.TerminationReason

	dirtRate float64
	seed     int64
}

// New constructs a world, placing round(width*height*dirtRate) distinct
// dirty cells drawn from an RNG owned by this world. Identical parameters
// and seed always reproduce the identical dirt layout.
func New(p Params) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if p.Seed != nil {
		seed = *p.Seed
	}

	w := &World{
		width:    p.Width,
		height:   p.Height,
		dirt:     make([]bool, p.Width*p.Height),
		pos:      domain.Position{X: p.InitX, Y: p.InitY},
		dirtRate: p.DirtRate,
		seed:     seed,
	}

	total := p.Width * p.Height
	n := int(math.Round(float64(total) * p.DirtRate))
	rng := rand.New(rand.NewSource(seed))
	for _, cell := range rng.Perm(total)[:n] {
		w.dirt[cell] = true
	}
	w.dirtCount = n
	w.initialDirt = n
	return w, nil
}

// Apply executes one action. It returns false, without mutating anything,
// when the world is already terminal; every other submission consumes
// exactly one step and returns true, including wall bumps and sucks on a
// clean cell.
func (w *World) Apply(a domain.Action) bool {
	if w.Finished() {
		return false
	}

	w.stepsTaken++

	switch a {
	case domain.ActionUp:
		if w.pos.Y > 0 {
			w.pos.Y--
		}
	case domain.ActionDown:
		if w.pos.Y < w.height-1 {
			w.pos.Y++
		}
	case domain.ActionLeft:
		if w.pos.X > 0 {
			w.pos.X--
		}
	case domain.ActionRight:
		if w.pos.X < w.width-1 {
			w.pos.X++
		}
	case domain.ActionSuck:
		if w.dirt[w.cell()] {
			w.dirt[w.cell()] = false
			w.dirtCount--
			w.performance++
		}
	case domain.ActionIdle:
	}

	// Max-steps wins when both conditions become true on the same action.
	// A world that never had dirt can only end by exhausting the budget.
	if w.reason == domain.TerminationNone {
		switch {
		case w.stepsTaken == MaxSteps:
			w.reason = domain.TerminationMaxSteps
		case w.dirtCount == 0 && w.initialDirt > 0:
			w.reason = domain.TerminationAllCleaned
		}
	}
	return true
}

func (w *World) cell() int {
	return w.pos.Y*w.width + w.pos.X
}

// Finished reports whether the world is terminal.
func (w *World) Finished() bool {
	return w.reason != domain.TerminationNone
}

// Reason returns the termination reason, empty while running.
func (w *World) Reason() domain.TerminationReason {
	return w.reason
}

// Sense returns the perception visible to an agent before acting.
func (w *World) Sense() domain.Perception {
	return domain.Perception{
		Position:          w.pos,
		IsDirty:           w.dirt[w.cell()],
		StepsRemaining:    MaxSteps - w.stepsTaken,
		Finished:          w.Finished(),
		TerminationReason: w.reason,
	}
}

// Delta returns the compact state view used in action responses.
func (w *World) Delta() domain.StateDelta {
	return domain.StateDelta{
		Position:          w.pos,
		IsDirty:           w.dirt[w.cell()],
		Performance:       w.performance,
		StepsTaken:        w.stepsTaken,
		StepsRemaining:    MaxSteps - w.stepsTaken,
		Finished:          w.Finished(),
		TerminationReason: w.reason,
	}
}

// Snapshot returns a full copy of the state, including the grid. The
// returned grid is freshly allocated and safe to retain.
func (w *World) Snapshot() domain.Snapshot {
	grid := make([][]int, w.height)
	for y := 0; y < w.height; y++ {
		row := make([]int, w.width)
		for x := 0; x < w.width; x++ {
			if w.dirt[y*w.width+x] {
				row[x] = 1
			}
		}
		grid[y] = row
	}
	return domain.Snapshot{
		Grid:              grid,
		AgentPosition:     w.pos,
		IsDirty:           w.dirt[w.cell()],
		Performance:       w.performance,
		StepsTaken:        w.stepsTaken,
		StepsRemaining:    MaxSteps - w.stepsTaken,
		Finished:          w.Finished(),
		TerminationReason: w.reason,
	}
}

// Accessors used by the registry listing and the results archive.

func (w *World) Width() int        { return w.width }
func (w *World) Height() int       { return w.height }
func (w *World) DirtRate() float64 { return w.dirtRate }
func (w *World) Seed() int64       { return w.seed }
func (w *World) InitialDirt() int  { return w.initialDirt }
func (w *World) Performance() int  { return w.performance }
func (w *World) StepsTaken() int   { return w.stepsTaken }

// Position returns the agent's current cell.
func (w *World) Position() domain.Position { return w.pos }
