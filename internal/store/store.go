package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"debatefightclub-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// AddDebateMessageParams contains parameters for appending a debate message.
// AudioURL may be empty when synthesis failed or was skipped.
type AddDebateMessageParams struct {
	DebateID uuid.UUID
	Speaker  models.Speaker
	Message  string
	AudioURL string
}

// AddSandboxMessageParams contains parameters for appending a sandbox message.
type AddSandboxMessageParams struct {
	ConversationID uuid.UUID
	Speaker        models.ChatSpeaker
	Message        string
	AudioURL       string
}

// AddDojoMessageParams contains parameters for appending a dojo message.
// Score and Feedback are only set on AI replies carrying an evaluation.
type AddDojoMessageParams struct {
	SessionID uuid.UUID
	Speaker   models.ChatSpeaker
	Message   string
	AudioURL  string
	Score     int
	Feedback  string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	TouchUserSignIn(ctx context.Context, id uuid.UUID) error

	// Debate operations
	CreateDebate(ctx context.Context, userID uuid.UUID, topic string) (*models.Debate, error)
	GetDebateByID(ctx context.Context, id, userID uuid.UUID) (*models.Debate, error)
	ListDebatesByUser(ctx context.Context, userID uuid.UUID) ([]models.Debate, error)
	UpdateDebateStatus(ctx context.Context, id, userID uuid.UUID, status models.DebateStatus) error
	AddDebateMessage(ctx context.Context, arg AddDebateMessageParams) (*models.DebateMessage, error)
	ListDebateMessages(ctx context.Context, debateID uuid.UUID) ([]models.DebateMessage, error)

	// Sandbox operations
	CreateSandboxConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*models.SandboxConversation, error)
	GetSandboxConversationByID(ctx context.Context, id, userID uuid.UUID) (*models.SandboxConversation, error)
	ListSandboxConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.SandboxConversation, error)
	AddSandboxMessage(ctx context.Context, arg AddSandboxMessageParams) (*models.SandboxMessage, error)
	ListSandboxMessages(ctx context.Context, conversationID uuid.UUID) ([]models.SandboxMessage, error)

	// Dojo operations
	CreateDojoSession(ctx context.Context, userID uuid.UUID, scenario, description string) (*models.DojoSession, error)
	GetDojoSessionByID(ctx context.Context, id, userID uuid.UUID) (*models.DojoSession, error)
	ListDojoSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.DojoSession, error)
	UpdateDojoSessionScore(ctx context.Context, id, userID uuid.UUID, score int) error
	UpdateDojoSessionStatus(ctx context.Context, id, userID uuid.UUID, status models.SessionStatus) error
	AddDojoMessage(ctx context.Context, arg AddDojoMessageParams) (*models.DojoMessage, error)
	ListDojoMessages(ctx context.Context, sessionID uuid.UUID) ([]models.DojoMessage, error)
	CountDojoResponses(ctx context.Context, sessionID uuid.UUID) (int, error)
}
