// Package recording captures step-by-step traces of runs and replays them
// as read-only cursors. The trace is plain data: nothing here executes
// simulation logic, so a replay always reproduces the recorded run exactly.
package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vacuumworld/internal/domain"
)

// Metadata describes the run a recording belongs to. Final counters are
// filled in at finalize time.
type Metadata struct {
	AgentType         string  `json:"agent_type"`
	Size              [2]int  `json:"size"`
	DirtRate          float64 `json:"dirt_rate"`
	Seed              *int64  `json:"seed,omitempty"`
	Timestamp         string  `json:"timestamp"`
	FinalPerformance  int     `json:"final_performance"`
	TotalActions      int     `json:"total_actions"`
	SuccessfulActions int     `json:"successful_actions"`
}

// InitialState is the grid and agent position before the first action.
type InitialState struct {
	Grid          [][]int         `json:"grid"`
	AgentPosition domain.Position `json:"agent_position"`
}

// Step is one recorded transition. Step numbers start at 1 and are never
// reused or reordered.
type Step struct {
	Step       int               `json:"step"`
	Action     domain.Action     `json:"action"`
	Before     domain.Snapshot   `json:"before_state"`
	After      domain.Snapshot   `json:"after_state"`
	Reward     int               `json:"reward"`
	Perception domain.Perception `json:"perception"`
}

// Recording is the full persisted trace of one run.
type Recording struct {
	Metadata     Metadata     `json:"metadata"`
	InitialState InitialState `json:"initial_state"`
	Steps        []Step       `json:"steps"`
}

// WriteFile persists the recording in a single atomic write: the JSON is
// staged in a temp file in the target directory and renamed into place, so
// a crash never leaves a half-written recording at path.
func (r *Recording) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".recording-*.json")
	if err != nil {
		return fmt.Errorf("failed to stage recording: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write recording: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write recording: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist recording: %w", err)
	}
	return nil
}

// Load reads a recording from disk. Unreadable or malformed files surface
// as errors to the caller; they never panic.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode recording %s: %w", path, err)
	}
	return &rec, nil
}

// Filename builds the conventional recording file name for an agent run.
func Filename(agentType string, at time.Time) string {
	return fmt.Sprintf("game_%s_%s.json", at.Format("2006-01-02_15-04-05"), agentType)
}
