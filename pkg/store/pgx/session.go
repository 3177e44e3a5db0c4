package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateSession inserts a new empty session and returns it.
func (s *GraphDBStorage) CreateSession(ctx context.Context, name string) (*store.Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	var session store.Session
	err = s.conn.QueryRow(ctx, `
		INSERT INTO sessions (id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, name, status, created_at, updated_at`,
		id, name, store.SessionStatusEmpty,
	).Scan(&session.ID, &session.Name, &session.Status, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}

	logger.Debug("[Store] Session created", "session_id", session.ID)

	return &session, nil
}

// GetSession returns a session by ID or store.ErrNotFound.
func (s *GraphDBStorage) GetSession(ctx context.Context, id string) (*store.Session, error) {
	var session store.Session
	err := s.conn.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM sessions
		WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.Name, &session.Status, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, newest first.
func (s *GraphDBStorage) ListSessions(ctx context.Context) ([]store.Session, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]store.Session, 0)
	for rows.Next() {
		var session store.Session
		if err := rows.Scan(&session.ID, &session.Name, &session.Status, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateSessionStatus moves a session through the processing lifecycle.
func (s *GraphDBStorage) UpdateSessionStatus(ctx context.Context, id string, status store.SessionStatus) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE sessions
		SET status = $2, updated_at = now()
		WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session and, via cascading foreign keys, all of its
// documents, graph data and topics.
func (s *GraphDBStorage) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	logger.Debug("[Store] Session deleted", "session_id", id)

	return nil
}
