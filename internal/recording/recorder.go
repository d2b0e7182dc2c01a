package recording

import (
	"time"

	"vacuumworld/internal/domain"
)

// Recorder accumulates step records for one run. It is fed caller-supplied
// before/after snapshots; it never touches the simulation itself.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording with the run's identity and initial state.
func NewRecorder(agentType string, size [2]int, dirtRate float64, seed *int64, initial domain.Snapshot) *Recorder {
	return &Recorder{
		rec: Recording{
			Metadata: Metadata{
				AgentType: agentType,
				Size:      size,
				DirtRate:  dirtRate,
				Seed:      seed,
				Timestamp: time.Now().Format(time.RFC3339),
			},
			InitialState: InitialState{
				Grid:          initial.Grid,
				AgentPosition: initial.AgentPosition,
			},
		},
	}
}

// RecordStep appends one transition. Step numbers are assigned
// sequentially starting at 1; the reward is derived from the snapshots.
func (r *Recorder) RecordStep(action domain.Action, before, after domain.Snapshot, perception domain.Perception) {
	r.rec.Steps = append(r.rec.Steps, Step{
		Step:       len(r.rec.Steps) + 1,
		Action:     action,
		Before:     before,
		After:      after,
		Reward:     after.Performance - before.Performance,
		Perception: perception,
	})
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.rec.Steps)
}

// Finalize fills in the final counters and returns the completed
// recording, ready to persist.
func (r *Recorder) Finalize(finalPerformance, totalActions, successfulActions int) *Recording {
	r.rec.Metadata.FinalPerformance = finalPerformance
	r.rec.Metadata.TotalActions = totalActions
	r.rec.Metadata.SuccessfulActions = successfulActions
	return &r.rec
}
