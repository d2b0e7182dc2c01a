package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vacuumworld/internal/domain"
	"vacuumworld/internal/registry"
	"vacuumworld/internal/store"
	"vacuumworld/internal/world"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(registry.New(), db), db
}

func createSession(t *testing.T, svc *Service, p world.Params) string {
	t.Helper()
	s, err := svc.CreateSession(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return s.ID
}

func fullDirtParams(w, h int) world.Params {
	s := int64(1)
	return world.Params{Width: w, Height: h, DirtRate: 1.0, Seed: &s}
}

func TestActRewardAndDelta(t *testing.T) {
	svc, _ := newTestService(t)
	id := createSession(t, svc, fullDirtParams(2, 2))

	res, err := svc.Act(context.Background(), id, "suck")
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Reward)
	assert.True(t, res.Previous.IsDirty)
	assert.False(t, res.New.IsDirty)
	assert.Equal(t, 0, res.Previous.StepsTaken)
	assert.Equal(t, 1, res.New.StepsTaken)
}

func TestActInvalidAction(t *testing.T) {
	svc, _ := newTestService(t)
	id := createSession(t, svc, fullDirtParams(2, 2))

	_, err := svc.Act(context.Background(), id, "jump")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	// Nothing happened: the step counter is untouched.
	snap, err := svc.State(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, 0, snap.StepsTaken)
}

func TestActUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Act(context.Background(), "missing", "up")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActAfterTermination(t *testing.T) {
	svc, _ := newTestService(t)
	id := createSession(t, svc, fullDirtParams(1, 1))

	res, err := svc.Act(context.Background(), id, "suck")
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.New.Finished)

	res, err = svc.Act(context.Background(), id, "idle")
	assert.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.New.StepsTaken)
	assert.Equal(t, 0, res.Reward)
}

func TestTerminalRunIsArchived(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc, fullDirtParams(1, 1))

	_, err := svc.Act(ctx, id, "suck")
	assert.NoError(t, err)

	results, err := db.ListResults(ctx, 0)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, id, results[0].SessionID)
	assert.Equal(t, 1, results[0].Performance)
	assert.Equal(t, domain.TerminationAllCleaned, results[0].TerminationReason)

	// A rejected action on the terminal session must not archive again.
	_, err = svc.Act(ctx, id, "suck")
	assert.NoError(t, err)
	results, _ = db.ListResults(ctx, 0)
	assert.Len(t, results, 1)
}

func TestCleanTwoByTwo(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	s := int64(1)
	id := createSession(t, svc, world.Params{Width: 2, Height: 2, DirtRate: 1.0, Seed: &s})

	performance := 0
	for _, name := range []string{"suck", "right", "suck", "down", "suck", "left", "suck"} {
		res, err := svc.Act(ctx, id, name)
		assert.NoError(t, err)
		assert.True(t, res.Success)
		performance = res.New.Performance
	}

	assert.Equal(t, 4, performance)
	snap, _ := svc.State(ctx, id)
	assert.True(t, snap.Finished)
	assert.Equal(t, domain.TerminationAllCleaned, snap.TerminationReason)
	assert.Less(t, snap.StepsTaken, 1000)
}

func TestSenseAndState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	s := int64(4)
	id := createSession(t, svc, world.Params{
		Width: 4, Height: 3, InitX: 2, InitY: 1, DirtRate: 0.5, Seed: &s,
	})

	p, err := svc.Sense(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.Position{X: 2, Y: 1}, p.Position)
	assert.Equal(t, 1000, p.StepsRemaining)
	assert.False(t, p.Finished)

	snap, err := svc.State(ctx, id)
	assert.NoError(t, err)
	assert.Len(t, snap.Grid, 3)
	assert.Len(t, snap.Grid[0], 4)
	assert.Equal(t, p.IsDirty, snap.IsDirty)
}

func TestDeleteThenNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createSession(t, svc, fullDirtParams(2, 2))

	assert.NoError(t, svc.DeleteSession(ctx, id))
	assert.ErrorIs(t, svc.DeleteSession(ctx, id), domain.ErrNotFound)
	_, err := svc.Sense(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessionsAndHealthCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createSession(t, svc, fullDirtParams(2, 2))
	createSession(t, svc, fullDirtParams(3, 3))

	assert.Len(t, svc.ListSessions(ctx), 2)
	assert.Equal(t, 2, svc.ActiveSessions())
}
