// Package runner drives a decision policy against a server session until
// the session terminates, optionally capturing a recording and always
// collecting run statistics.
package runner

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"vacuumworld/internal/agent"
	"vacuumworld/internal/client"
	"vacuumworld/internal/domain"
	"vacuumworld/internal/recording"
	"vacuumworld/internal/world"
)

// Options configure one run.
type Options struct {
	Policy   agent.Policy
	Width    int
	Height   int
	InitX    *int
	InitY    *int
	DirtRate float64
	Seed     *int64

	// RecordDir enables recording when non-empty; the file name follows
	// the game_<timestamp>_<agent>.json convention.
	RecordDir string

	Verbose bool
}

// Stats summarize a finished run.
type Stats struct {
	SessionID         string
	FinalPerformance  int
	InitialDirt       int
	StepsTaken        int
	TerminationReason domain.TerminationReason

	TotalActions      int
	SuccessfulActions int
	SuckAttempts      int
	SuccessfulSucks   int
	MovementActions   int
	IdleActions       int

	Duration      time.Duration
	RecordingPath string
}

// SuccessRate is the fraction of submitted actions the server accepted.
func (s *Stats) SuccessRate() float64 {
	if s.TotalActions == 0 {
		return 0
	}
	return float64(s.SuccessfulActions) / float64(s.TotalActions)
}

// CleaningEfficiency is dirt cleaned per submitted action.
func (s *Stats) CleaningEfficiency() float64 {
	if s.TotalActions == 0 {
		return 0
	}
	return float64(s.SuccessfulSucks) / float64(s.TotalActions)
}

// Run creates a session, loops sense→decide→act until the session reports
// a terminal state, deletes the session, and returns the statistics.
func Run(ctx context.Context, c *client.Client, opts Options) (*Stats, error) {
	start := time.Now()

	info, err := c.CreateSession(ctx, client.CreateParams{
		Width: &opts.Width, Height: &opts.Height,
		InitX: opts.InitX, InitY: opts.InitY,
		DirtRate: &opts.DirtRate,
		Seed:     opts.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := c.DeleteSession(context.WithoutCancel(ctx), info.SessionID); err != nil {
			log.Printf("failed to delete session %s: %v", info.SessionID, err)
		}
	}()

	stats := &Stats{SessionID: info.SessionID}

	initial, err := c.State(ctx, info.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch initial state: %w", err)
	}
	for _, row := range initial.Grid {
		for _, cell := range row {
			stats.InitialDirt += cell
		}
	}

	var rec *recording.Recorder
	if opts.RecordDir != "" {
		seed := info.Seed
		rec = recording.NewRecorder(opts.Policy.Name(),
			[2]int{info.Width, info.Height}, info.DirtRate, &seed, initial)
	}

	// The server enforces the step budget; the margin only guards against
	// a runaway loop if it ever misbehaves.
	for i := 0; i < 2*world.MaxSteps; i++ {
		perception, err := c.Sense(ctx, info.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to sense: %w", err)
		}
		if perception.Finished {
			break
		}

		action := opts.Policy.Next(perception)

		var before domain.Snapshot
		if rec != nil {
			if before, err = c.State(ctx, info.SessionID); err != nil {
				return nil, fmt.Errorf("failed to snapshot state: %w", err)
			}
		}

		result, err := c.Act(ctx, info.SessionID, action)
		if err != nil {
			return nil, fmt.Errorf("failed to act: %w", err)
		}
		stats.record(action, result)

		if rec != nil {
			after, err := c.State(ctx, info.SessionID)
			if err != nil {
				return nil, fmt.Errorf("failed to snapshot state: %w", err)
			}
			rec.RecordStep(action, before, after, perception)
		}

		if opts.Verbose && stats.TotalActions%100 == 0 {
			log.Printf("[%s] actions=%d performance=%d position=(%d,%d)",
				opts.Policy.Name(), stats.TotalActions,
				result.New.Performance, result.New.Position.X, result.New.Position.Y)
		}
	}

	final, err := c.State(ctx, info.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch final state: %w", err)
	}
	stats.FinalPerformance = final.Performance
	stats.StepsTaken = final.StepsTaken
	stats.TerminationReason = final.TerminationReason
	stats.Duration = time.Since(start)

	if rec != nil {
		path := filepath.Join(opts.RecordDir,
			recording.Filename(opts.Policy.Name(), start))
		full := rec.Finalize(stats.FinalPerformance, stats.TotalActions, stats.SuccessfulActions)
		if err := full.WriteFile(path); err != nil {
			// Recording loss is not a run failure.
			log.Printf("failed to persist recording: %v", err)
		} else {
			stats.RecordingPath = path
		}
	}
	return stats, nil
}

func (s *Stats) record(action domain.Action, result *domain.ActResult) {
	s.TotalActions++
	if result.Success {
		s.SuccessfulActions++
	}
	switch {
	case action == domain.ActionSuck:
		s.SuckAttempts++
		if result.Reward > 0 {
			s.SuccessfulSucks++
		}
	case action.IsMovement():
		s.MovementActions++
	case action == domain.ActionIdle:
		s.IdleActions++
	}
}
