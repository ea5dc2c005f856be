package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/prompts"
	"debatefightclub-backend/internal/store"
)

// ErrUnknownPersonality is returned for a personality tag outside the
// fixed set.
var ErrUnknownPersonality = errors.New("unknown personality")

// SandboxStore is the slice of the store the sandbox service depends on.
type SandboxStore interface {
	CreateSandboxConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*models.SandboxConversation, error)
	GetSandboxConversationByID(ctx context.Context, id, userID uuid.UUID) (*models.SandboxConversation, error)
	ListSandboxConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.SandboxConversation, error)
	AddSandboxMessage(ctx context.Context, arg store.AddSandboxMessageParams) (*models.SandboxMessage, error)
	ListSandboxMessages(ctx context.Context, conversationID uuid.UUID) ([]models.SandboxMessage, error)
}

// SandboxService runs free-form conversations against fixed personas.
type SandboxService struct {
	store SandboxStore
	llm   Completer
	tts   Synthesizer
}

func NewSandboxService(s SandboxStore, llm Completer, tts Synthesizer) *SandboxService {
	return &SandboxService{store: s, llm: llm, tts: tts}
}

// CreateConversation starts a conversation with a fixed personality.
func (s *SandboxService) CreateConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*models.SandboxConversation, error) {
	if _, ok := prompts.PersonalityPrompt(personality); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPersonality, personality)
	}
	conv, err := s.store.CreateSandboxConversation(ctx, userID, personality, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox conversation: %w", err)
	}
	return conv, nil
}

// ListConversations lists the caller's conversations, newest first.
func (s *SandboxService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.SandboxConversation, error) {
	return s.store.ListSandboxConversationsByUser(ctx, userID)
}

// ListMessages returns a conversation's transcript in creation order,
// scoped to the owner.
func (s *SandboxService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.SandboxMessage, error) {
	if _, err := s.store.GetSandboxConversationByID(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.store.ListSandboxMessages(ctx, conversationID)
}

// Respond generates the persona's reply to the user's message. When
// req.ConversationID is set, history is loaded from the store (the
// conversation's fixed personality wins over the request's) and both turns
// are persisted. A TTS failure never fails the response; the reply carries
// an empty audio reference instead.
func (s *SandboxService) Respond(ctx context.Context, userID uuid.UUID, req models.SandboxRespondRequest) (*models.SandboxRespondResponse, error) {
	personality := req.Personality
	history := req.History

	var conversationID uuid.UUID
	if req.ConversationID != nil {
		conv, err := s.store.GetSandboxConversationByID(ctx, *req.ConversationID, userID)
		if err != nil {
			return nil, err
		}
		conversationID = conv.ID
		personality = conv.Personality
		stored, err := s.store.ListSandboxMessages(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation history: %w", err)
		}
		history = sandboxHistory(stored)
	}

	systemPrompt, ok := prompts.PersonalityPrompt(personality)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPersonality, personality)
	}

	response, err := s.llm.Complete(ctx, prompts.BuildConversationMessages(systemPrompt, history, req.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to generate sandbox response: %w", err)
	}

	audioURL, err := s.tts.Synthesize(ctx, response, "user")
	if err != nil {
		log.Printf("Warning: TTS failed for sandbox response, continuing without audio: %v", err)
		audioURL = ""
	}

	if req.ConversationID != nil {
		if _, err := s.store.AddSandboxMessage(ctx, store.AddSandboxMessageParams{
			ConversationID: conversationID,
			Speaker:        models.ChatSpeakerUser,
			Message:        req.Message,
		}); err != nil {
			return nil, fmt.Errorf("failed to persist user message: %w", err)
		}
		if _, err := s.store.AddSandboxMessage(ctx, store.AddSandboxMessageParams{
			ConversationID: conversationID,
			Speaker:        models.ChatSpeakerAI,
			Message:        response,
			AudioURL:       audioURL,
		}); err != nil {
			return nil, fmt.Errorf("failed to persist sandbox reply: %w", err)
		}
	}

	return &models.SandboxRespondResponse{Response: response, AudioURL: audioURL}, nil
}

// sandboxHistory maps stored sandbox messages onto the two-role LLM schema.
func sandboxHistory(messages []models.SandboxMessage) []models.HistoryMessage {
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
