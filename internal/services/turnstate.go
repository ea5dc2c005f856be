package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"debatefightclub-backend/internal/models"
)

// NextSpeaker implements debate auto-progression: pro and con alternate, and
// the pro side resumes after a user interruption or opens a fresh debate.
func NextSpeaker(last models.Speaker) models.Speaker {
	switch last {
	case models.SpeakerPro:
		return models.SpeakerCon
	case models.SpeakerCon:
		return models.SpeakerPro
	default:
		// "user" or no prior message
		return models.SpeakerPro
	}
}

// TurnState is the session-scoped auto-progression state for one debate:
// a single-flight flag so only one generation runs at a time, a paused flag,
// and the earliest time the next scheduled turn may start.
type TurnState struct {
	mu         sync.Mutex
	generating bool
	paused     bool
	delay      time.Duration
	nextAt     time.Time
}

// NewTurnState creates turn state with the configured inter-turn delay.
func NewTurnState(delay time.Duration) *TurnState {
	return &TurnState{delay: delay}
}

// TryBegin claims the generation slot. The returned error names the gate
// that refused: a generation already in flight, the debate being paused, or
// the inter-turn delay not having elapsed yet. A successful claim must be
// released with Finish.
func (s *TurnState) TryBegin(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.generating:
		return ErrGenerationInFlight
	case s.paused:
		return ErrDebateNotActive
	case now.Before(s.nextAt):
		return ErrTurnTooSoon
	}
	s.generating = true
	return nil
}

// Finish releases the generation slot and schedules the earliest start of
// the next turn.
func (s *TurnState) Finish(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	s.nextAt = now.Add(s.delay)
}

// Pause stops any further generation from being scheduled.
func (s *TurnState) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume re-enables generation.
func (s *TurnState) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// Paused reports whether auto-progression is paused.
func (s *TurnState) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// turnStates tracks per-debate TurnState, created on first use.
type turnStates struct {
	mu     sync.Mutex
	delay  time.Duration
	states map[uuid.UUID]*TurnState
}

func newTurnStates(delay time.Duration) *turnStates {
	return &turnStates{delay: delay, states: make(map[uuid.UUID]*TurnState)}
}

func (t *turnStates) get(debateID uuid.UUID) *TurnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[debateID]
	if !ok {
		st = NewTurnState(t.delay)
		t.states[debateID] = st
	}
	return st
}

// remove evicts a debate's state once it can no longer generate turns.
func (t *turnStates) remove(debateID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, debateID)
}

// len reports the number of tracked debates.
func (t *turnStates) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}
