package models

import (
	"github.com/google/uuid"
)

// --- Auth DTOs ---

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Role  Role      `json:"role"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// --- Debate DTOs ---

type CreateDebateRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=2000"`
}

type UpdateDebateStatusRequest struct {
	Status DebateStatus `json:"status" validate:"required,oneof=active paused completed"`
}

// GenerateTurnRequest asks for the next generated debate turn. Speaker and
// topic are optional: the turn driver derives the speaker from the last
// persisted message and the topic defaults to the stored debate topic.
type GenerateTurnRequest struct {
	Speaker Speaker `json:"speaker" validate:"omitempty,oneof=pro con"`
	Topic   string  `json:"topic" validate:"max=2000"`
}

type TurnResponse struct {
	Speaker  Speaker `json:"speaker"`
	Message  string  `json:"message"`
	AudioURL string  `json:"audio_url,omitempty"`
}

type InterruptionRequest struct {
	Message string `json:"message" validate:"required,min=1"`
	Topic   string `json:"topic" validate:"max=2000"`
}

type InterruptionResponse struct {
	ProResponse string `json:"pro_response"`
	ConResponse string `json:"con_response"`
	ProAudio    string `json:"pro_audio,omitempty"`
	ConAudio    string `json:"con_audio,omitempty"`
}

type ListDebatesResponse struct {
	Debates []Debate `json:"debates"`
}

type ListDebateMessagesResponse struct {
	Messages []DebateMessage `json:"messages"`
}

// --- Sandbox DTOs ---

// HistoryMessage is a prior turn supplied by the client when the exchange is
// not persisted server-side. Role follows the two-role LLM schema.
type HistoryMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type CreateSandboxConversationRequest struct {
	Personality string `json:"personality" validate:"required"`
	Title       string `json:"title" validate:"max=255"`
}

type SandboxRespondRequest struct {
	Message        string           `json:"message" validate:"required,min=1"`
	Personality    string           `json:"personality" validate:"required"`
	History        []HistoryMessage `json:"history" validate:"omitempty,dive"`
	ConversationID *uuid.UUID       `json:"conversation_id,omitempty"`
}

type SandboxRespondResponse struct {
	Response string `json:"response"`
	AudioURL string `json:"audio_url,omitempty"`
}

type ListSandboxConversationsResponse struct {
	Conversations []SandboxConversation `json:"conversations"`
}

type ListSandboxMessagesResponse struct {
	Messages []SandboxMessage `json:"messages"`
}

// --- Dojo DTOs ---

type ScenarioResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SystemPrompt string `json:"systemPrompt"`
}

type CreateDojoSessionRequest struct {
	Scenario string `json:"scenario" validate:"required"`
}

type DojoRespondRequest struct {
	Message   string           `json:"message" validate:"required,min=1"`
	Scenario  string           `json:"scenario" validate:"required"`
	History   []HistoryMessage `json:"history" validate:"omitempty,dive"`
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
}

type DojoRespondResponse struct {
	Response string `json:"response"`
	AudioURL string `json:"audio_url,omitempty"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type ListDojoSessionsResponse struct {
	Sessions []DojoSession `json:"sessions"`
}

type ListDojoMessagesResponse struct {
	Messages []DojoMessage `json:"messages"`
}

// --- Speech DTOs ---

type TranscribeRequest struct {
	AudioURL string `json:"audio_url" validate:"required,url"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// --- Shared ---

type ErrorResponse struct {
	Error string `json:"error"`
}
