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

const createDojoSession = `-- name: CreateDojoSession :one
INSERT INTO dojo_sessions (user_id, scenario, description, status)
VALUES ($1, $2, $3, 'in_progress')
RETURNING id, user_id, scenario, description, score, status, created_at, updated_at;
`

func (s *PostgresStore) CreateDojoSession(ctx context.Context, userID uuid.UUID, scenario, description string) (*models.DojoSession, error) {
	row := s.db.QueryRow(ctx, createDojoSession, userID, scenario, description)
	var ds models.DojoSession
	err := row.Scan(&ds.ID, &ds.UserID, &ds.Scenario, &ds.Description, &ds.Score, &ds.Status, &ds.CreatedAt, &ds.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning dojo session: %w", err)
	}
	return &ds, nil
}

const getDojoSessionByID = `-- name: GetDojoSessionByID :one
SELECT id, user_id, scenario, description, score, status, created_at, updated_at
FROM dojo_sessions
WHERE id = $1 AND user_id = $2;
`

func (s *PostgresStore) GetDojoSessionByID(ctx context.Context, id, userID uuid.UUID) (*models.DojoSession, error) {
	row := s.db.QueryRow(ctx, getDojoSessionByID, id, userID)
	var ds models.DojoSession
	err := row.Scan(&ds.ID, &ds.UserID, &ds.Scenario, &ds.Description, &ds.Score, &ds.Status, &ds.CreatedAt, &ds.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning dojo session: %w", err)
	}
	return &ds, nil
}

const listDojoSessionsByUser = `-- name: ListDojoSessionsByUser :many
SELECT id, user_id, scenario, description, score, status, created_at, updated_at
FROM dojo_sessions
WHERE user_id = $1
ORDER BY created_at DESC;
`

func (s *PostgresStore) ListDojoSessionsByUser(ctx context.Context, userID uuid.UUID) ([]models.DojoSession, error) {
	rows, err := s.db.Query(ctx, listDojoSessionsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying dojo sessions: %w", err)
	}
	defer rows.Close()

	var items []models.DojoSession
	for rows.Next() {
		var ds models.DojoSession
		if err := rows.Scan(&ds.ID, &ds.UserID, &ds.Scenario, &ds.Description, &ds.Score, &ds.Status, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dojo session row: %w", err)
		}
		items = append(items, ds)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dojo session rows: %w", err)
	}
	return items, nil
}

const updateDojoSessionScore = `-- name: UpdateDojoSessionScore :exec
UPDATE dojo_sessions
SET score = $1, updated_at = NOW()
WHERE id = $2 AND user_id = $3;
`

func (s *PostgresStore) UpdateDojoSessionScore(ctx context.Context, id, userID uuid.UUID, score int) error {
	tag, err := s.db.Exec(ctx, updateDojoSessionScore, score, id, userID)
	if err != nil {
		return fmt.Errorf("error executing update dojo session score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const updateDojoSessionStatus = `-- name: UpdateDojoSessionStatus :exec
UPDATE dojo_sessions
SET status = $1, updated_at = NOW()
WHERE id = $2 AND user_id = $3;
`

func (s *PostgresStore) UpdateDojoSessionStatus(ctx context.Context, id, userID uuid.UUID, status models.SessionStatus) error {
	tag, err := s.db.Exec(ctx, updateDojoSessionStatus, status, id, userID)
	if err != nil {
		return fmt.Errorf("error executing update dojo session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const addDojoMessage = `-- name: AddDojoMessage :one
INSERT INTO dojo_messages (session_id, speaker, message, audio_url, score, feedback)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, session_id, speaker, message, audio_url, score, feedback, created_at;
`

func (s *PostgresStore) AddDojoMessage(ctx context.Context, arg store.AddDojoMessageParams) (*models.DojoMessage, error) {
	row := s.db.QueryRow(ctx, addDojoMessage, arg.SessionID, arg.Speaker, arg.Message, arg.AudioURL, arg.Score, arg.Feedback)
	var m models.DojoMessage
	err := row.Scan(&m.ID, &m.SessionID, &m.Speaker, &m.Message, &m.AudioURL, &m.Score, &m.Feedback, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error scanning dojo message: %w", err)
	}
	return &m, nil
}

const listDojoMessages = `-- name: ListDojoMessages :many
SELECT id, session_id, speaker, message, audio_url, score, feedback, created_at
FROM dojo_messages
WHERE session_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListDojoMessages(ctx context.Context, sessionID uuid.UUID) ([]models.DojoMessage, error) {
	rows, err := s.db.Query(ctx, listDojoMessages, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying dojo messages: %w", err)
	}
	defer rows.Close()

	var items []models.DojoMessage
	for rows.Next() {
		var m models.DojoMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Speaker, &m.Message, &m.AudioURL, &m.Score, &m.Feedback, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dojo message row: %w", err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dojo message rows: %w", err)
	}
	return items, nil
}

const countDojoResponses = `-- name: CountDojoResponses :one
SELECT COUNT(*)
FROM dojo_messages
WHERE session_id = $1 AND speaker = 'ai';
`

func (s *PostgresStore) CountDojoResponses(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, countDojoResponses, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting dojo responses: %w", err)
	}
	return count, nil
}
