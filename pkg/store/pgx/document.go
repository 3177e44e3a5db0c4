package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/causamap/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const documentColumns = `id, session_id, name, file_type, object_key, status, status_error, content, created_at, updated_at`

func scanDocument(row pgxv5.Row) (*store.Document, error) {
	var doc store.Document
	err := row.Scan(
		&doc.ID, &doc.SessionID, &doc.Name, &doc.FileType, &doc.ObjectKey,
		&doc.Status, &doc.StatusError, &doc.Text, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument inserts a new document record. The document ID is generated
// when not set by the caller.
func (s *GraphDBStorage) CreateDocument(ctx context.Context, doc *store.Document) (*store.Document, error) {
	if doc.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate document ID: %w", err)
		}
		doc.ID = id
	}
	if doc.Status == "" {
		doc.Status = store.DocumentStatusPending
	}

	row := s.conn.QueryRow(ctx, `
		INSERT INTO documents (id, session_id, name, file_type, object_key, status, status_error, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+documentColumns,
		doc.ID, doc.SessionID, doc.Name, doc.FileType, doc.ObjectKey, doc.Status, doc.StatusError, doc.Text,
	)
	return scanDocument(row)
}

// GetDocument returns a document scoped to a session or store.ErrNotFound.
func (s *GraphDBStorage) GetDocument(ctx context.Context, sessionID string, id string) (*store.Document, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE session_id = $1 AND id = $2`,
		sessionID, id,
	)
	return scanDocument(row)
}

// ListDocuments returns all documents of a session in upload order.
func (s *GraphDBStorage) ListDocuments(ctx context.Context, sessionID string) ([]store.Document, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE session_id = $1
		ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(
			&doc.ID, &doc.SessionID, &doc.Name, &doc.FileType, &doc.ObjectKey,
			&doc.Status, &doc.StatusError, &doc.Text, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus moves a document through the extraction lifecycle.
// statusError carries the failure reason for failed documents and is cleared
// otherwise.
func (s *GraphDBStorage) UpdateDocumentStatus(ctx context.Context, id string, status store.DocumentStatus, statusError string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET status = $2, status_error = $3, updated_at = now()
		WHERE id = $1`,
		id, status, statusError,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetDocumentText stores the extracted plain text of a document.
func (s *GraphDBStorage) SetDocumentText(ctx context.Context, id string, text string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET content = $2, updated_at = now()
		WHERE id = $1`,
		id, text,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
