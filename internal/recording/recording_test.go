package recording

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"vacuumworld/internal/domain"
)

func snapshotAt(x, perf, steps int, dirty bool) domain.Snapshot {
	grid := [][]int{{1, 1}}
	return domain.Snapshot{
		Grid:           grid,
		AgentPosition:  domain.Position{X: x, Y: 0},
		IsDirty:        dirty,
		Performance:    perf,
		StepsTaken:     steps,
		StepsRemaining: 1000 - steps,
	}
}

func buildRecording(t *testing.T) *Recording {
	t.Helper()
	seed := int64(7)
	r := NewRecorder("testagent", [2]int{2, 1}, 1.0, &seed, snapshotAt(0, 0, 0, true))

	before := snapshotAt(0, 0, 0, true)
	after := snapshotAt(0, 1, 1, false)
	r.RecordStep(domain.ActionSuck, before, after, domain.Perception{
		Position: before.AgentPosition, IsDirty: true, StepsRemaining: 1000,
	})

	before, after = after, snapshotAt(1, 1, 2, true)
	r.RecordStep(domain.ActionRight, before, after, domain.Perception{
		Position: before.AgentPosition, StepsRemaining: 999,
	})

	return r.Finalize(1, 2, 2)
}

func TestRecorderAssignsStepNumbers(t *testing.T) {
	rec := buildRecording(t)

	assert.Len(t, rec.Steps, 2)
	assert.Equal(t, 1, rec.Steps[0].Step)
	assert.Equal(t, 2, rec.Steps[1].Step)
	assert.Equal(t, 1, rec.Steps[0].Reward)
	assert.Equal(t, 0, rec.Steps[1].Reward)
	assert.Equal(t, 1, rec.Metadata.FinalPerformance)
	assert.Equal(t, 2, rec.Metadata.TotalActions)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	rec := buildRecording(t)
	path := filepath.Join(t.TempDir(), "run.json")

	assert.NoError(t, rec.WriteFile(path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, rec.Metadata, loaded.Metadata)
	assert.Len(t, loaded.Steps, 2)
	assert.Equal(t, domain.ActionSuck, loaded.Steps[0].Action)
	assert.Equal(t, rec.Steps[1].After.AgentPosition, loaded.Steps[1].After.AgentPosition)
}

func TestWriteLeavesNoTempOnTarget(t *testing.T) {
	rec := buildRecording(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	assert.NoError(t, rec.WriteFile(path))

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "run.json", entries[0].Name())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	assert.NoError(t, os.WriteFile(bad, []byte("{truncated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestCursorWalk(t *testing.T) {
	rec := buildRecording(t)
	c := NewCursor(rec)

	assert.False(t, c.Done())
	assert.Equal(t, 1, c.Current().Step)
	assert.True(t, c.Perception().IsDirty)

	assert.True(t, c.Advance())
	assert.Equal(t, 2, c.Current().Step)

	assert.True(t, c.Advance())
	assert.True(t, c.Done())
	assert.Nil(t, c.Current())

	// Past the end: synthetic terminal perception, clamped cursor.
	assert.True(t, c.Perception().Finished)
	assert.False(t, c.Advance())
	assert.Equal(t, 2, c.Pos())

	// Terminal state is the last recorded after-state.
	last := c.State()
	assert.True(t, last.Finished)
	assert.Equal(t, domain.Position{X: 1, Y: 0}, last.AgentPosition)
}

func TestReplayReproducesAfterStates(t *testing.T) {
	rec := buildRecording(t)
	path := filepath.Join(t.TempDir(), "run.json")
	assert.NoError(t, rec.WriteFile(path))

	loaded, err := Load(path)
	assert.NoError(t, err)

	c := NewCursor(loaded)
	for i := 0; !c.Done(); i++ {
		assert.Equal(t, rec.Steps[i].After, c.Current().After)
		c.Advance()
	}
}

func TestEmptyRecordingCursor(t *testing.T) {
	r := NewRecorder("idle", [2]int{1, 1}, 0, nil, snapshotAt(0, 0, 0, false))
	c := NewCursor(r.Finalize(0, 0, 0))

	assert.True(t, c.Done())
	assert.True(t, c.Perception().Finished)
	assert.True(t, c.State().Finished)
}
