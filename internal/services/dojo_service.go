package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/prompts"
	"debatefightclub-backend/internal/store"
)

// Custom errors for the dojo service.
var (
	// ErrUnknownScenario is returned for a scenario tag outside the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrSessionCompleted is returned when a response targets a session that
	// has already been marked completed.
	ErrSessionCompleted = errors.New("session is already completed")
)

const (
	defaultScore    = 50
	defaultFeedback = "Good effort!"
)

// DojoStore is the slice of the store the dojo service depends on.
type DojoStore interface {
	CreateDojoSession(ctx context.Context, userID uuid.UUID, scenario, description string) (*models.DojoSession, error)
	GetDojoSessionByID(ctx context.Context, id, userID uuid.UUID) (*models.DojoSession, error)
	ListDojoSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.DojoSession, error)
	UpdateDojoSessionScore(ctx context.Context, id, userID uuid.UUID, score int) error
	UpdateDojoSessionStatus(ctx context.Context, id, userID uuid.UUID, status models.SessionStatus) error
	AddDojoMessage(ctx context.Context, arg store.AddDojoMessageParams) (*models.DojoMessage, error)
	ListDojoMessages(ctx context.Context, sessionID uuid.UUID) ([]models.DojoMessage, error)
	CountDojoResponses(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// DojoService runs scored practice sessions against fixed scenarios.
type DojoService struct {
	store DojoStore
	llm   Completer
	tts   Synthesizer
}

func NewDojoService(s DojoStore, llm Completer, tts Synthesizer) *DojoService {
	return &DojoService{store: s, llm: llm, tts: tts}
}

// Scenarios returns the fixed scenario catalog.
func (s *DojoService) Scenarios() []models.ScenarioResponse {
	catalog := prompts.Scenarios()
	out := make([]models.ScenarioResponse, len(catalog))
	for i, sc := range catalog {
		out[i] = models.ScenarioResponse{
			ID:           sc.ID,
			Title:        sc.Title,
			Description:  sc.Description,
			SystemPrompt: sc.SystemPrompt,
		}
	}
	return out
}

// CreateSession starts a practice session for a known scenario.
func (s *DojoService) CreateSession(ctx context.Context, userID uuid.UUID, scenario string) (*models.DojoSession, error) {
	sc, ok := prompts.ScenarioByID(scenario)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, scenario)
	}
	session, err := s.store.CreateDojoSession(ctx, userID, sc.ID, sc.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create dojo session: %w", err)
	}
	return session, nil
}

// CompleteSession marks a practice session as finished. The rolling score
// stays as-is; completed sessions accept no further responses through the
// session path.
func (s *DojoService) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.store.UpdateDojoSessionStatus(ctx, sessionID, userID, models.SessionStatusCompleted)
}

// ListSessions lists the caller's practice sessions, newest first.
func (s *DojoService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.DojoSession, error) {
	return s.store.ListDojoSessionsByUser(ctx, userID)
}

// ListMessages returns a session's transcript in creation order, scoped to
// the owner.
func (s *DojoService) ListMessages(ctx context.Context, userID, sessionID uuid.UUID) ([]models.DojoMessage, error) {
	if _, err := s.store.GetDojoSessionByID(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.store.ListDojoMessages(ctx, sessionID)
}

// Respond generates the scenario counterpart's reply along with a score and
// feedback for the user's message. When req.SessionID is set, the history is
// loaded from the store, both turns are persisted, and the session's rolling
// score is updated. A TTS failure never fails the response; the reply is
// returned and persisted with an empty audio reference.
func (s *DojoService) Respond(ctx context.Context, userID uuid.UUID, req models.DojoRespondRequest) (*models.DojoRespondResponse, error) {
	scenario, ok := prompts.ScenarioByID(req.Scenario)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, req.Scenario)
	}

	history := req.History
	if req.SessionID != nil {
		session, err := s.store.GetDojoSessionByID(ctx, *req.SessionID, userID)
		if err != nil {
			return nil, err
		}
		if session.Status == models.SessionStatusCompleted {
			return nil, ErrSessionCompleted
		}
		stored, err := s.store.ListDojoMessages(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session history: %w", err)
		}
		history = dojoHistory(stored)
	}

	full, err := s.llm.Complete(ctx, prompts.BuildDojoMessages(scenario, history, req.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to generate dojo response: %w", err)
	}

	response, score, feedback := ParseScoredReply(full)

	audioURL, err := s.tts.Synthesize(ctx, response, "con")
	if err != nil {
		log.Printf("Warning: TTS failed for dojo response, continuing without audio: %v", err)
		audioURL = ""
	}

	if req.SessionID != nil {
		if err := s.persistExchange(ctx, userID, *req.SessionID, req.Message, response, audioURL, score, feedback); err != nil {
			return nil, err
		}
	}

	return &models.DojoRespondResponse{
		Response: response,
		AudioURL: audioURL,
		Score:    score,
		Feedback: feedback,
	}, nil
}

// persistExchange appends the user and AI turns and folds the new score into
// the session's running average.
func (s *DojoService) persistExchange(ctx context.Context, userID, sessionID uuid.UUID, userMessage, response, audioURL string, score int, feedback string) error {
	if _, err := s.store.AddDojoMessage(ctx, store.AddDojoMessageParams{
		SessionID: sessionID,
		Speaker:   models.ChatSpeakerUser,
		Message:   userMessage,
	}); err != nil {
		return fmt.Errorf("failed to persist user message: %w", err)
	}

	if _, err := s.store.AddDojoMessage(ctx, store.AddDojoMessageParams{
		SessionID: sessionID,
		Speaker:   models.ChatSpeakerAI,
		Message:   response,
		AudioURL:  audioURL,
		Score:     score,
		Feedback:  feedback,
	}); err != nil {
		return fmt.Errorf("failed to persist dojo reply: %w", err)
	}

	session, err := s.store.GetDojoSessionByID(ctx, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to reload session: %w", err)
	}
	n, err := s.store.CountDojoResponses(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to count scored responses: %w", err)
	}
	rolled := RollScore(session.Score, score, n)
	if err := s.store.UpdateDojoSessionScore(ctx, sessionID, userID, rolled); err != nil {
		return fmt.Errorf("failed to update session score: %w", err)
	}
	return nil
}

// RollScore folds the nth score into the previous running average:
// avg_n = avg_{n-1} + (score - avg_{n-1}) / n.
func RollScore(prevAvg, score, n int) int {
	if n <= 1 {
		return score
	}
	return prevAvg + (score-prevAvg)/n
}

// dojoHistory maps stored dojo messages onto the two-role LLM schema.
func dojoHistory(messages []models.DojoMessage) []models.HistoryMessage {
	out := make([]models.HistoryMessage, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Speaker == models.ChatSpeakerAI {
			role = "assistant"
		}
		out = append(out, models.HistoryMessage{Role: role, Content: m.Message})
	}
	return out
}

var scoreMarker = regexp.MustCompile(`SCORE:\s*(-?\d+)`)

// ParseScoredReply extracts the visible reply, score, and feedback from a
// model reply expected to contain a "SCORE: <integer>" line. This is a
// best-effort textual contract with the model: on malformed input it never
// fails, degrading to score 50 and a fixed feedback string. The score is
// clamped into [1,100].
func ParseScoredReply(full string) (response string, score int, feedback string) {
	score = defaultScore
	feedback = defaultFeedback

	loc := scoreMarker.FindStringSubmatchIndex(full)
	if loc == nil {
		return strings.TrimSpace(full), score, feedback
	}

	response = strings.TrimSpace(full[:loc[0]])

	if n, err := strconv.Atoi(full[loc[2]:loc[3]]); err == nil {
		score = clampScore(n)
	}

	// Feedback is whatever follows the score line.
	rest := full[loc[1]:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if fb := strings.TrimSpace(rest[nl+1:]); fb != "" {
			feedback = fb
		}
	}

	return response, score, feedback
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}
