package pgx

import (
	"context"

	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveTopics replaces the stored topic suggestions of a session.
func (s *GraphDBStorage) SaveTopics(ctx context.Context, sessionID string, topics []common.Topic) error {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM topics WHERE session_id = $1`, sessionID); err != nil {
		return err
	}

	batch := &pgxv5.Batch{}
	for _, t := range topics {
		batch.Queue(`
			INSERT INTO topics (id, session_id, title, rationale, variables)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, sessionID, t.Title, t.Rationale, t.Variables,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	logger.Debug("[Store] Topics saved", "session_id", sessionID, "topics", len(topics))

	return tx.Commit(ctx)
}

// GetTopics returns the stored topic suggestions of a session.
func (s *GraphDBStorage) GetTopics(ctx context.Context, sessionID string) ([]common.Topic, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, title, rationale, variables
		FROM topics
		WHERE session_id = $1
		ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]common.Topic, 0)
	for rows.Next() {
		var t common.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Rationale, &t.Variables); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
