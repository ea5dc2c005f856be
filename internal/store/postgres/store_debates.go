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

const createDebate = `-- name: CreateDebate :one
INSERT INTO debates (user_id, topic, status)
VALUES ($1, $2, 'active')
RETURNING id, user_id, topic, status, created_at, updated_at;
`

func (s *PostgresStore) CreateDebate(ctx context.Context, userID uuid.UUID, topic string) (*models.Debate, error) {
	row := s.db.QueryRow(ctx, createDebate, userID, topic)
	var d models.Debate
	err := row.Scan(&d.ID, &d.UserID, &d.Topic, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning debate: %w", err)
	}
	return &d, nil
}

const getDebateByID = `-- name: GetDebateByID :one
SELECT id, user_id, topic, status, created_at, updated_at
FROM debates
WHERE id = $1 AND user_id = $2;
`

func (s *PostgresStore) GetDebateByID(ctx context.Context, id, userID uuid.UUID) (*models.Debate, error) {
	row := s.db.QueryRow(ctx, getDebateByID, id, userID)
	var d models.Debate
	err := row.Scan(&d.ID, &d.UserID, &d.Topic, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning debate: %w", err)
	}
	return &d, nil
}

const listDebatesByUser = `-- name: ListDebatesByUser :many
SELECT id, user_id, topic, status, created_at, updated_at
FROM debates
WHERE user_id = $1
ORDER BY created_at DESC;
`

func (s *PostgresStore) ListDebatesByUser(ctx context.Context, userID uuid.UUID) ([]models.Debate, error) {
	rows, err := s.db.Query(ctx, listDebatesByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying debates: %w", err)
	}
	defer rows.Close()

	var items []models.Debate
	for rows.Next() {
		var d models.Debate
		if err := rows.Scan(&d.ID, &d.UserID, &d.Topic, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning debate row: %w", err)
		}
		items = append(items, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debate rows: %w", err)
	}
	return items, nil
}

const updateDebateStatus = `-- name: UpdateDebateStatus :exec
UPDATE debates
SET status = $1, updated_at = NOW()
WHERE id = $2 AND user_id = $3;
`

func (s *PostgresStore) UpdateDebateStatus(ctx context.Context, id, userID uuid.UUID, status models.DebateStatus) error {
	tag, err := s.db.Exec(ctx, updateDebateStatus, status, id, userID)
	if err != nil {
		return fmt.Errorf("error executing update debate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Could be due to wrong ID or user not owning the debate
		return store.ErrNotFound
	}
	return nil
}

const addDebateMessage = `-- name: AddDebateMessage :one
INSERT INTO debate_messages (debate_id, speaker, message, audio_url)
VALUES ($1, $2, $3, $4)
RETURNING id, debate_id, speaker, message, audio_url, created_at;
`

func (s *PostgresStore) AddDebateMessage(ctx context.Context, arg store.AddDebateMessageParams) (*models.DebateMessage, error) {
	row := s.db.QueryRow(ctx, addDebateMessage, arg.DebateID, arg.Speaker, arg.Message, arg.AudioURL)
	var m models.DebateMessage
	err := row.Scan(&m.ID, &m.DebateID, &m.Speaker, &m.Message, &m.AudioURL, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning debate message: %w", err)
	}
	return &m, nil
}

const listDebateMessages = `-- name: ListDebateMessages :many
SELECT id, debate_id, speaker, message, audio_url, created_at
FROM debate_messages
WHERE debate_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListDebateMessages(ctx context.Context, debateID uuid.UUID) ([]models.DebateMessage, error) {
	rows, err := s.db.Query(ctx, listDebateMessages, debateID)
	if err != nil {
		return nil, fmt.Errorf("error querying debate messages: %w", err)
	}
	defer rows.Close()

	var items []models.DebateMessage
	for rows.Next() {
		var m models.DebateMessage
		if err := rows.Scan(&m.ID, &m.DebateID, &m.Speaker, &m.Message, &m.AudioURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning debate message row: %w", err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debate message rows: %w", err)
	}
	return items, nil
}
