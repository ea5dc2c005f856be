package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Enums ---

// Role distinguishes regular users from admins.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DebateStatus is the lifecycle state of a debate.
type DebateStatus string

const (
	DebateStatusActive    DebateStatus = "active"
	DebateStatusPaused    DebateStatus = "paused"
	DebateStatusCompleted DebateStatus = "completed"
)

// Speaker identifies who produced a debate message.
type Speaker string

const (
	SpeakerPro  Speaker = "pro"
	SpeakerCon  Speaker = "con"
	SpeakerUser Speaker = "user"
)

// ChatSpeaker identifies who produced a sandbox or dojo message.
type ChatSpeaker string

const (
	ChatSpeakerUser ChatSpeaker = "user"
	ChatSpeakerAI   ChatSpeaker = "ai"
)

// SessionStatus is the lifecycle state of a dojo practice session.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// --- Database Models ---

// User represents a row in the users table.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastSignedIn   time.Time
}

// Debate represents a row in the debates table.
type Debate struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Topic     string       `json:"topic"`
	Status    DebateStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DebateMessage represents a row in the debate_messages table.
// Messages are append-only and immutable once written.
type DebateMessage struct {
	ID        uuid.UUID `json:"id"`
	DebateID  uuid.UUID `json:"debate_id"`
	Speaker   Speaker   `json:"speaker"`
	Message   string    `json:"message"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SandboxConversation represents a row in the sandbox_conversations table.
// The personality is fixed for the lifetime of the conversation.
type SandboxConversation struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Personality string    `json:"personality"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SandboxMessage represents a row in the sandbox_messages table.
type SandboxMessage struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Speaker        ChatSpeaker `json:"speaker"`
	Message        string      `json:"message"`
	AudioURL       string      `json:"audio_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// DojoSession represents a row in the dojo_sessions table.
// Score is a rolling average over the per-message scores.
type DojoSession struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Scenario    string        `json:"scenario"`
	Description string        `json:"description,omitempty"`
	Score       int           `json:"score"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// DojoMessage represents a row in the dojo_messages table.
// Score and feedback live on the AI reply that evaluated the user's turn.
type DojoMessage struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"session_id"`
	Speaker   ChatSpeaker `json:"speaker"`
	Message   string      `json:"message"`
	AudioURL  string      `json:"audio_url,omitempty"`
	Score     int         `json:"score"`
	Feedback  string      `json:"feedback,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
