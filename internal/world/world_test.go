package world

import (
	"errors"
	"testing"

	"vacuumworld/internal/domain"
)

func seed(v int64) *int64 { return &v }

func mustNew(t *testing.T, p Params) *World {
	t.Helper()
	w, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{Width: 0, Height: 4}},
		{"oversized", Params{Width: 257, Height: 4}},
		{"position outside grid", Params{Width: 4, Height: 4, InitX: 4, InitY: 0}},
		{"negative position", Params{Width: 4, Height: 4, InitX: -1}},
		{"dirt rate above one", Params{Width: 4, Height: 4, DirtRate: 1.5}},
		{"negative dirt rate", Params{Width: 4, Height: 4, DirtRate: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.p); !errors.Is(err, domain.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDirtLayoutDeterministic(t *testing.T) {
	p := Params{Width: 16, Height: 16, DirtRate: 0.4, Seed: seed(42)}
	a := mustNew(t, p)
	b := mustNew(t, p)

	ga, gb := a.Snapshot().Grid, b.Snapshot().Grid
	for y := range ga {
		for x := range ga[y] {
			if ga[y][x] != gb[y][x] {
				t.Fatalf("grids diverge at (%d,%d)", x, y)
			}
		}
	}
	if a.InitialDirt() != 102 { // round(256*0.4)
		t.Fatalf("expected 102 dirty cells, got %d", a.InitialDirt())
	}
}

func TestFullDirtRate(t *testing.T) {
	w := mustNew(t, Params{Width: 2, Height: 2, DirtRate: 1.0, Seed: seed(1)})
	if w.InitialDirt() != 4 {
		t.Fatalf("expected 4 dirty cells, got %d", w.InitialDirt())
	}
}

func TestSuckCleansAndRewards(t *testing.T) {
	w := mustNew(t, Params{Width: 2, Height: 2, DirtRate: 1.0, Seed: seed(1)})

	if !w.Sense().IsDirty {
		t.Fatal("cell should start dirty at full dirt rate")
	}
	if !w.Apply(domain.ActionSuck) {
		t.Fatal("suck rejected on running world")
	}
	if w.Performance() != 1 {
		t.Fatalf("performance = %d, want 1", w.Performance())
	}
	if w.Sense().IsDirty {
		t.Fatal("cell still dirty after suck")
	}

	// Suck on a clean cell consumes a step but changes nothing else.
	if !w.Apply(domain.ActionSuck) {
		t.Fatal("dry suck rejected")
	}
	if w.Performance() != 1 {
		t.Fatalf("dry suck changed performance to %d", w.Performance())
	}
	if w.StepsTaken() != 2 {
		t.Fatalf("stepsTaken = %d, want 2", w.StepsTaken())
	}
}

func TestWallBumpConsumesStep(t *testing.T) {
	w := mustNew(t, Params{Width: 3, Height: 3, Seed: seed(7)})

	if !w.Apply(domain.ActionLeft) {
		t.Fatal("wall bump should report success")
	}
	if got := w.Position(); got.X != 0 || got.Y != 0 {
		t.Fatalf("position moved to %+v on wall bump", got)
	}
	if w.StepsTaken() != 1 {
		t.Fatalf("stepsTaken = %d, want 1", w.StepsTaken())
	}
}

func TestMovementStaysInBounds(t *testing.T) {
	w := mustNew(t, Params{Width: 2, Height: 2, DirtRate: 1.0, Seed: seed(3)})
	moves := []domain.Action{
		domain.ActionUp, domain.ActionUp, domain.ActionRight, domain.ActionRight,
		domain.ActionDown, domain.ActionDown, domain.ActionLeft, domain.ActionLeft,
	}
	for _, a := range moves {
		w.Apply(a)
		p := w.Position()
		if p.X < 0 || p.X >= 2 || p.Y < 0 || p.Y >= 2 {
			t.Fatalf("position %+v escaped the grid after %s", p, a)
		}
	}
}

func TestAllCleanedTermination(t *testing.T) {
	w := mustNew(t, Params{Width: 2, Height: 1, DirtRate: 1.0, Seed: seed(9)})

	w.Apply(domain.ActionSuck)
	if w.Finished() {
		t.Fatal("finished with dirt remaining")
	}
	w.Apply(domain.ActionRight)
	w.Apply(domain.ActionSuck)

	if !w.Finished() {
		t.Fatal("not finished after cleaning everything")
	}
	if w.Reason() != domain.TerminationAllCleaned {
		t.Fatalf("reason = %q, want all_cleaned", w.Reason())
	}
}

func TestZeroDirtEndsOnlyByBudget(t *testing.T) {
	w := mustNew(t, Params{Width: 8, Height: 8, DirtRate: 0, Seed: seed(5)})

	for i := 0; i < MaxSteps; i++ {
		if w.Finished() {
			t.Fatalf("finished early at step %d with reason %q", i, w.Reason())
		}
		if !w.Apply(domain.ActionSuck) {
			t.Fatalf("action rejected at step %d", i)
		}
	}
	if w.Performance() != 0 {
		t.Fatalf("performance = %d on a clean world", w.Performance())
	}
	if w.Reason() != domain.TerminationMaxSteps {
		t.Fatalf("reason = %q, want max_steps_reached", w.Reason())
	}
}

func TestMaxStepsWinsTieBreak(t *testing.T) {
	// One dirty cell under the agent; burn the budget down to the last
	// step, then clean it. Both conditions hold after that action.
	w := mustNew(t, Params{Width: 1, Height: 1, DirtRate: 1.0, Seed: seed(2)})
	for i := 0; i < MaxSteps-1; i++ {
		w.Apply(domain.ActionIdle)
	}
	w.Apply(domain.ActionSuck)

	if w.Performance() != 1 {
		t.Fatalf("final suck did not clean, performance = %d", w.Performance())
	}
	if w.Reason() != domain.TerminationMaxSteps {
		t.Fatalf("reason = %q, want max_steps_reached", w.Reason())
	}
}

func TestTerminalRejectsWithoutMutation(t *testing.T) {
	w := mustNew(t, Params{Width: 1, Height: 1, DirtRate: 1.0, Seed: seed(2)})
	w.Apply(domain.ActionSuck)
	if !w.Finished() {
		t.Fatal("single-cell world should finish after one suck")
	}

	steps, perf := w.StepsTaken(), w.Performance()
	if w.Apply(domain.ActionIdle) {
		t.Fatal("terminal world accepted an action")
	}
	if w.StepsTaken() != steps || w.Performance() != perf {
		t.Fatal("terminal rejection mutated state")
	}
	if w.Reason() != domain.TerminationAllCleaned {
		t.Fatalf("reason overwritten to %q", w.Reason())
	}
}

func TestPerformanceMonotonic(t *testing.T) {
	w := mustNew(t, Params{Width: 8, Height: 8, DirtRate: 0.5, Seed: seed(11)})
	prev := 0
	actions := []domain.Action{
		domain.ActionSuck, domain.ActionRight, domain.ActionSuck, domain.ActionDown,
		domain.ActionSuck, domain.ActionLeft, domain.ActionSuck, domain.ActionUp,
		domain.ActionIdle, domain.ActionSuck,
	}
	for _, a := range actions {
		w.Apply(a)
		if w.Performance() < prev {
			t.Fatalf("performance decreased from %d to %d", prev, w.Performance())
		}
		prev = w.Performance()
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	w := mustNew(t, Params{Width: 2, Height: 2, DirtRate: 1.0, Seed: seed(4)})
	snap := w.Snapshot()
	snap.Grid[0][0] = 0

	if got := w.Snapshot().Grid[0][0]; got != 1 {
		t.Fatal("mutating a snapshot leaked into the world")
	}
}
