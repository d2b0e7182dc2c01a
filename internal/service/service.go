// Package service implements the action protocol: request validation,
// session lookup, state deltas, and reward shaping on top of the registry.
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"vacuumworld/internal/domain"
	"vacuumworld/internal/registry"
	"vacuumworld/internal/store"
	"vacuumworld/internal/world"
)

// Service wires the session registry to the results archive. It is
// stateless apart from the collaborators it owns.
type Service struct {
	registry *registry.Registry
	results  store.Store
}

// New creates a service. The results store may be nil, in which case
// finished runs are not archived.
func New(reg *registry.Registry, results store.Store) *Service {
	return &Service{
		registry: reg,
		results:  results,
	}
}

// CreateSession validates params and registers a new world.
func (s *Service) CreateSession(ctx context.Context, p world.Params) (*registry.Session, error) {
	return s.registry.Create(p)
}

// Act parses the action name, applies it to the session's world, and
// returns the before/after delta with the derived reward. The session's
// world is mutated without a per-session lock; callers issuing concurrent
// actions against the same id serialize them on their side.
func (s *Service) Act(ctx context.Context, sessionID, actionName string) (*domain.ActResult, error) {
	action, err := domain.ParseAction(actionName)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	w := session.World

	before := w.Delta()
	success := w.Apply(action)
	after := w.Delta()

	result := &domain.ActResult{
		Success:  success,
		Action:   action,
		Previous: before,
		New:      after,
		Reward:   after.Performance - before.Performance,
	}

	// Archive the run the moment this action made it terminal. A failed
	// archive is logged and swallowed; the live session is unaffected.
	if success && after.Finished && s.results != nil {
		if err := s.archive(ctx, session); err != nil {
			log.Printf("failed to archive result for session %s: %v", sessionID, err)
		}
	}
	return result, nil
}

func (s *Service) archive(ctx context.Context, session *registry.Session) error {
	w := session.World
	return s.results.SaveResult(ctx, &domain.RunResult{
		ResultID:          uuid.New().String(),
		SessionID:         session.ID,
		Width:             w.Width(),
		Height:            w.Height(),
		DirtRate:          w.DirtRate(),
		Seed:              w.Seed(),
		InitialDirt:       w.InitialDirt(),
		Performance:       w.Performance(),
		StepsTaken:        w.StepsTaken(),
		TerminationReason: w.Reason(),
		FinishedAt:        time.Now(),
	})
}

// Sense returns the read-only perception for a session.
func (s *Service) Sense(ctx context.Context, sessionID string) (domain.Perception, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return domain.Perception{}, err
	}
	return session.World.Sense(), nil
}

// State returns the full snapshot for a session.
func (s *Service) State(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.World.Snapshot(), nil
}

// ListSessions returns a consistent summary of all live sessions.
func (s *Service) ListSessions(ctx context.Context) []domain.SessionSummary {
	return s.registry.List()
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	return s.registry.Delete(sessionID)
}

// ActiveSessions returns the number of live sessions.
func (s *Service) ActiveSessions() int {
	return s.registry.Len()
}

// Results lists archived run summaries, newest first.
func (s *Service) Results(ctx context.Context, limit int) ([]domain.RunResult, error) {
	if s.results == nil {
		return nil, nil
	}
	return s.results.ListResults(ctx, limit)
}
