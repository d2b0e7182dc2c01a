package recording

import "vacuumworld/internal/domain"

// Cursor is a read-only position into a recording's steps. It re-plays
// recorded snapshots; it never re-executes action logic.
type Cursor struct {
	rec *Recording
	pos int
}

// NewCursor starts a cursor at the first step.
func NewCursor(rec *Recording) *Cursor {
	return &Cursor{rec: rec}
}

// Current returns the step under the cursor, or nil when the cursor is at
// or past the end.
func (c *Cursor) Current() *Step {
	if c.Done() {
		return nil
	}
	return &c.rec.Steps[c.pos]
}

// Perception returns the perception recorded before the current step, or a
// synthetic terminal perception once the cursor has run off the end.
func (c *Cursor) Perception() domain.Perception {
	if step := c.Current(); step != nil {
		return step.Perception
	}
	return domain.Perception{Finished: true}
}

// State returns the after-state of the current step, or a terminal view of
// the last recorded state at the end.
func (c *Cursor) State() domain.Snapshot {
	if step := c.Current(); step != nil {
		return step.After
	}
	if n := len(c.rec.Steps); n > 0 {
		last := c.rec.Steps[n-1].After
		last.Finished = true
		return last
	}
	return domain.Snapshot{
		Grid:          c.rec.InitialState.Grid,
		AgentPosition: c.rec.InitialState.AgentPosition,
		Finished:      true,
	}
}

// Advance moves the cursor forward one step, clamped at the end. It
// reports whether a step was consumed.
func (c *Cursor) Advance() bool {
	if c.Done() {
		return false
	}
	c.pos++
	return true
}

// Done reports whether the cursor is at or past the last step.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.rec.Steps)
}

// Pos returns the zero-based cursor position.
func (c *Cursor) Pos() int {
	return c.pos
}
