package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/store"
)

const createSandboxConversation = `-- name: CreateSandboxConversation :one
INSERT INTO sandbox_conversations (user_id, personality, title)
VALUES ($1, $2, $3)
RETURNING id, user_id, personality, title, created_at, updated_at;
`

func (s *PostgresStore) CreateSandboxConversation(ctx context.Context, userID uuid.UUID, personality, title string) (*models.SandboxConversation, error) {
	row := s.db.QueryRow(ctx, createSandboxConversation, userID, personality, title)
	var c models.SandboxConversation
	err := row.Scan(&c.ID, &c.UserID, &c.Personality, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning sandbox conversation: %w", err)
	}
	return &c, nil
}

const getSandboxConversationByID = `-- name: GetSandboxConversationByID :one
SELECT id, user_id, personality, title, created_at, updated_at
FROM sandbox_conversations
WHERE id = $1 AND user_id = $2;
`

func (s *PostgresStore) GetSandboxConversationByID(ctx context.Context, id, userID uuid.UUID) (*models.SandboxConversation, error) {
	row := s.db.QueryRow(ctx, getSandboxConversationByID, id, userID)
	var c models.SandboxConversation
	err := row.Scan(&c.ID, &c.UserID, &c.Personality, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning sandbox conversation: %w", err)
	}
	return &c, nil
}

const listSandboxConversationsByUser = `-- name: ListSandboxConversationsByUser :many
SELECT id, user_id, personality, title, created_at, updated_at
FROM sandbox_conversations
WHERE user_id = $1
ORDER BY created_at DESC;
`

func (s *PostgresStore) ListSandboxConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.SandboxConversation, error) {
	rows, err := s.db.Query(ctx, listSandboxConversationsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying sandbox conversations: %w", err)
	}
	defer rows.Close()

	var items []models.SandboxConversation
	for rows.Next() {
		var c models.SandboxConversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Personality, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning sandbox conversation row: %w", err)
		}
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sandbox conversation rows: %w", err)
	}
	return items, nil
}

const addSandboxMessage = `-- name: AddSandboxMessage :one
INSERT INTO sandbox_messages (conversation_id, speaker, message, audio_url)
VALUES ($1, $2, $3, $4)
RETURNING id, conversation_id, speaker, message, audio_url, created_at;
`

func (s *PostgresStore) AddSandboxMessage(ctx context.Context, arg store.AddSandboxMessageParams) (*models.SandboxMessage, error) {
	row := s.db.QueryRow(ctx, addSandboxMessage, arg.ConversationID, arg.Speaker, arg.Message, arg.AudioURL)
	var m models.SandboxMessage
	err := row.Scan(&m.ID, &m.ConversationID, &m.Speaker, &m.Message, &m.AudioURL, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning sandbox message: %w", err)
	}
	return &m, nil
}

const listSandboxMessages = `-- name: ListSandboxMessages :many
SELECT id, conversation_id, speaker, message, audio_url, created_at
FROM sandbox_messages
WHERE conversation_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListSandboxMessages(ctx context.Context, conversationID uuid.UUID) ([]models.SandboxMessage, error) {
	rows, err := s.db.Query(ctx, listSandboxMessages, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying sandbox messages: %w", err)
	}
	defer rows.Close()

	var items []models.SandboxMessage
	for rows.Next() {
		var m models.SandboxMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Speaker, &m.Message, &m.AudioURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning sandbox message row: %w", err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sandbox message rows: %w", err)
	}
	return items, nil
}
