package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/prompts"
	"debatefightclub-backend/internal/store"
)

// Custom errors for the debate service.
var (
	ErrGenerationInFlight = errors.New("a turn is already being generated for this debate")
	ErrDebateNotActive    = errors.New("debate is not active")
	ErrTurnTooSoon        = errors.New("the inter-turn delay has not elapsed yet")
)

// DebateStore is the slice of the store the debate service depends on.
type DebateStore interface {
	CreateDebate(ctx context.Context, userID uuid.UUID, topic string) (*models.Debate, error)
	GetDebateByID(ctx context.Context, id, userID uuid.UUID) (*models.Debate, error)
	ListDebatesByUser(ctx context.Context, userID uuid.UUID) ([]models.Debate, error)
	UpdateDebateStatus(ctx context.Context, id, userID uuid.UUID, status models.DebateStatus) error
	AddDebateMessage(ctx context.Context, arg store.AddDebateMessageParams) (*models.DebateMessage, error)
	ListDebateMessages(ctx context.Context, debateID uuid.UUID) ([]models.DebateMessage, error)
}

// DebateService orchestrates debate turns: turn driver -> prompt builder ->
// LLM -> TTS -> persistence.
type DebateService struct {
	store DebateStore
	llm   Completer
	tts   Synthesizer
	turns *turnStates
}

// NewDebateService creates a DebateService. turnDelay is the minimum gap
// between auto-progressed turns per debate.
func NewDebateService(s DebateStore, llm Completer, tts Synthesizer, turnDelay time.Duration) *DebateService {
	return &DebateService{
		store: s,
		llm:   llm,
		tts:   tts,
		turns: newTurnStates(turnDelay),
	}
}

// CreateDebate creates a new active debate owned by userID.
func (s *DebateService) CreateDebate(ctx context.Context, userID uuid.UUID, topic string) (*models.Debate, error) {
	debate, err := s.store.CreateDebate(ctx, userID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create debate: %w", err)
	}
	return debate, nil
}

// GetDebate retrieves one debate scoped to its owner.
func (s *DebateService) GetDebate(ctx context.Context, userID, debateID uuid.UUID) (*models.Debate, error) {
	return s.store.GetDebateByID(ctx, debateID, userID)
}

// ListDebates lists the caller's debates, newest first.
func (s *DebateService) ListDebates(ctx context.Context, userID uuid.UUID) ([]models.Debate, error) {
	return s.store.ListDebatesByUser(ctx, userID)
}

// ListMessages returns a debate's transcript in creation order. Ownership is
// verified before the messages are read.
func (s *DebateService) ListMessages(ctx context.Context, userID, debateID uuid.UUID) ([]models.DebateMessage, error) {
	if _, err := s.store.GetDebateByID(ctx, debateID, userID); err != nil {
		return nil, err
	}
	return s.store.ListDebateMessages(ctx, debateID)
}

// UpdateStatus changes a debate's lifecycle state and keeps the turn state in
// sync: paused debates stop scheduling generation, and completed debates drop
// their turn state entirely since nothing will generate for them again.
func (s *DebateService) UpdateStatus(ctx context.Context, userID, debateID uuid.UUID, status models.DebateStatus) error {
	if err := s.store.UpdateDebateStatus(ctx, debateID, userID, status); err != nil {
		return err
	}
	switch status {
	case models.DebateStatusActive:
		s.turns.get(debateID).Resume()
	case models.DebateStatusCompleted:
		s.turns.remove(debateID)
	default:
		s.turns.get(debateID).Pause()
	}
	return nil
}

// GenerateTurn produces the next debate turn. When speaker is empty the turn
// driver derives it from the last persisted message. The generation is
// single-flight per debate; a failed LLM or TTS call aborts the attempt
// without touching already-persisted messages and is not retried.
func (s *DebateService) GenerateTurn(ctx context.Context, userID, debateID uuid.UUID, topic string, speaker models.Speaker) (*models.TurnResponse, error) {
	debate, err := s.store.GetDebateByID(ctx, debateID, userID)
	if err != nil {
		return nil, err
	}
	if debate.Status != models.DebateStatusActive {
		return nil, ErrDebateNotActive
	}
	if topic == "" {
		topic = debate.Topic
	}

	st := s.turns.get(debateID)
	if err := st.TryBegin(time.Now()); err != nil {
		return nil, err
	}
	defer st.Finish(time.Now())

	history, err := s.store.ListDebateMessages(ctx, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debate history: %w", err)
	}

	if speaker == "" {
		last := models.Speaker("")
		if len(history) > 0 {
			last = history[len(history)-1].Speaker
		}
		speaker = NextSpeaker(last)
	}

	message, audioURL, err := s.generateArgument(ctx, speaker, prompts.DebateContext{
		Topic:            topic,
		PreviousMessages: history,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AddDebateMessage(ctx, store.AddDebateMessageParams{
		DebateID: debateID,
		Speaker:  speaker,
		Message:  message,
		AudioURL: audioURL,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist debate turn: %w", err)
	}

	return &models.TurnResponse{Speaker: speaker, Message: message, AudioURL: audioURL}, nil
}

// HandleInterruption persists the user's message, then runs two independent
// generation pipelines (pro and con) concurrently, each with its own TTS
// call, and persists both replies. Persistence order between the two replies
// is unspecified, but both land after the user message.
func (s *DebateService) HandleInterruption(ctx context.Context, userID, debateID uuid.UUID, topic, userMessage string) (*models.InterruptionResponse, error) {
	debate, err := s.store.GetDebateByID(ctx, debateID, userID)
	if err != nil {
		return nil, err
	}
	if topic == "" {
		topic = debate.Topic
	}

	// History is captured before the interruption row so the prompt carries
	// the interruption once, via the dedicated field.
	history, err := s.store.ListDebateMessages(ctx, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debate history: %w", err)
	}

	if _, err := s.store.AddDebateMessage(ctx, store.AddDebateMessageParams{
		DebateID: debateID,
		Speaker:  models.SpeakerUser,
		Message:  userMessage,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	pctx := prompts.DebateContext{
		Topic:            topic,
		PreviousMessages: history,
		UserInterruption: userMessage,
	}

	var proText, conText, proAudio, conAudio string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		proText, proAudio, err = s.generateArgument(gctx, models.SpeakerPro, pctx)
		return err
	})
	g.Go(func() error {
		var err error
		conText, conAudio, err = s.generateArgument(gctx, models.SpeakerCon, pctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, reply := range []store.AddDebateMessageParams{
		{DebateID: debateID, Speaker: models.SpeakerPro, Message: proText, AudioURL: proAudio},
		{DebateID: debateID, Speaker: models.SpeakerCon, Message: conText, AudioURL: conAudio},
	} {
		if _, err := s.store.AddDebateMessage(ctx, reply); err != nil {
			return nil, fmt.Errorf("failed to persist %s reply: %w", reply.Speaker, err)
		}
	}

	return &models.InterruptionResponse{
		ProResponse: proText,
		ConResponse: conText,
		ProAudio:    proAudio,
		ConAudio:    conAudio,
	}, nil
}

// generateArgument runs one LLM + TTS pipeline for a speaker. A TTS failure
// is non-fatal here: the turn still persists, just without audio.
func (s *DebateService) generateArgument(ctx context.Context, speaker models.Speaker, pctx prompts.DebateContext) (message, audioURL string, err error) {
	message, err = s.llm.Complete(ctx, prompts.BuildDebateMessages(speaker, pctx))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate %s argument: %w", speaker, err)
	}

	audioURL, err = s.tts.Synthesize(ctx, message, string(speaker))
	if err != nil {
		log.Printf("Warning: TTS failed for %s turn, persisting without audio: %v", speaker, err)
		audioURL = ""
		err = nil
	}
	return message, audioURL, nil
}
