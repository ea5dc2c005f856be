package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTurnStateSingleFlight(t *testing.T) {
	now := time.Now()
	st := NewTurnState(0)

	assert.NoError(t, st.TryBegin(now))
	assert.ErrorIs(t, st.TryBegin(now), ErrGenerationInFlight, "slot already claimed")

	st.Finish(now)
	assert.NoError(t, st.TryBegin(now))
}

func TestTurnStateDelay(t *testing.T) {
	now := time.Now()
	st := NewTurnState(3 * time.Second)

	assert.NoError(t, st.TryBegin(now))
	st.Finish(now)

	assert.ErrorIs(t, st.TryBegin(now.Add(time.Second)), ErrTurnTooSoon, "inter-turn delay not elapsed")
	assert.NoError(t, st.TryBegin(now.Add(3*time.Second)))
}

func TestTurnStatePause(t *testing.T) {
	now := time.Now()
	st := NewTurnState(0)

	st.Pause()
	assert.True(t, st.Paused())
	assert.ErrorIs(t, st.TryBegin(now), ErrDebateNotActive)

	st.Resume()
	assert.False(t, st.Paused())
	assert.NoError(t, st.TryBegin(now))
}

func TestTurnStatesCreatedPerDebate(t *testing.T) {
	reg := newTurnStates(time.Second)
	a := uuid.New()
	b := uuid.New()

	stA := reg.get(a)
	stB := reg.get(b)
	assert.NotSame(t, stA, stB)
	assert.Same(t, stA, reg.get(a), "same debate gets the same state")

	stA.Pause()
	assert.False(t, stB.Paused(), "pause is scoped to one debate")
}

func TestTurnStatesRemove(t *testing.T) {
	reg := newTurnStates(time.Second)
	a := uuid.New()

	stOld := reg.get(a)
	stOld.Pause()
	assert.Equal(t, 1, reg.len())

	reg.remove(a)
	assert.Equal(t, 0, reg.len())

	// A later lookup gets a fresh, unpaused state.
	stNew := reg.get(a)
	assert.NotSame(t, stOld, stNew)
	assert.False(t, stNew.Paused())
}
