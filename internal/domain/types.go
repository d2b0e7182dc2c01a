package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position is a cell coordinate. It marshals as a [x, y] pair to match the
// wire format used by recordings and the HTTP API.
type Position struct {
	X int
	Y int
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position must be a [x, y] pair: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// TerminationReason records why a session became permanently non-actionable.
type TerminationReason string

const (
	TerminationNone       TerminationReason = ""
	TerminationMaxSteps   TerminationReason = "max_steps_reached"
	TerminationAllCleaned TerminationReason = "all_cleaned"
)

// Perception is the subset of state visible to a decision policy before it
// chooses an action.
type Perception struct {
	Position          Position          `json:"position"`
	IsDirty           bool              `json:"is_dirty"`
	StepsRemaining    int               `json:"steps_remaining"`
	Finished          bool              `json:"is_finished"`
	TerminationReason TerminationReason `json:"termination_reason,omitempty"`
}

// Snapshot is a full copy of a world's state, used by the state endpoint and
// by recordings.
type Snapshot struct {
	Grid              [][]int           `json:"grid"`
	AgentPosition     Position          `json:"agent_position"`
	IsDirty           bool              `json:"is_dirty"`
	Performance       int               `json:"performance"`
	StepsTaken        int               `json:"steps_taken"`
	StepsRemaining    int               `json:"steps_remaining"`
	Finished          bool              `json:"is_finished"`
	TerminationReason TerminationReason `json:"termination_reason,omitempty"`
}

// StateDelta is the compact view of a session surrounding one action, used
// for the previous/new pair in action responses.
type StateDelta struct {
	Position          Position          `json:"position"`
	IsDirty           bool              `json:"is_dirty"`
	Performance       int               `json:"performance"`
	StepsTaken        int               `json:"steps_taken"`
	StepsRemaining    int               `json:"steps_remaining"`
	Finished          bool              `json:"is_finished"`
	TerminationReason TerminationReason `json:"termination_reason,omitempty"`
}

// ActResult is the outcome of submitting one action to a session.
// Success=false means the session was already terminal and nothing mutated.
type ActResult struct {
	Success  bool       `json:"success"`
	Action   Action     `json:"action"`
	Previous StateDelta `json:"previous_state"`
	New      StateDelta `json:"new_state"`
	Reward   int        `json:"reward"`
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	SessionID    string   `json:"session_id"`
	Size         [2]int   `json:"size"`
	Position     Position `json:"agent_position"`
	Performance  int      `json:"performance"`
	StepsTaken   int      `json:"steps_taken"`
	Finished     bool     `json:"is_finished"`
	CreatedAt    int64    `json:"created_at"`
	LastAccessAt int64    `json:"last_access"`
}

// RunResult is the archived summary of a session that reached a terminal
// state, persisted by the results store.
type RunResult struct {
	ResultID          string            `json:"result_id"`
	SessionID         string            `json:"session_id"`
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	DirtRate          float64           `json:"dirt_rate"`
	Seed              int64             `json:"seed"`
	InitialDirt       int               `json:"initial_dirt"`
	Performance       int               `json:"performance"`
	StepsTaken        int               `json:"steps_taken"`
	TerminationReason TerminationReason `json:"termination_reason"`
	FinishedAt        time.Time         `json:"finished_at"`
}
