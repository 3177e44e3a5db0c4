package store

import (
	"context"
	"errors"
	"time"

	"github.com/causamap/backend/pkg/common"
)

// ErrNotFound is returned when a requested session, document or graph does
// not exist.
var ErrNotFound = errors.New("store: not found")

// ErrUnknownID is returned when a cluster or variable referenced by an edit
// does not belong to the session's graph.
var ErrUnknownID = errors.New("store: unknown id")

// ErrEmptyGraph is returned when a graph edit targets a session whose graph
// has not been inferred yet.
var ErrEmptyGraph = errors.New("store: graph is empty")

// SessionStatus tracks how far the processing pipeline has come for a session.
type SessionStatus string

const (
	SessionStatusEmpty      SessionStatus = "empty"
	SessionStatusExtracting SessionStatus = "extracting"
	SessionStatusInferring  SessionStatus = "inferring"
	SessionStatusReady      SessionStatus = "ready"
	SessionStatusFailed     SessionStatus = "failed"
)

// DocumentStatus tracks the lifecycle of a single uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusExtracting DocumentStatus = "extracting"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Session is a research workspace: a set of uploaded documents plus the
// causal graph and topic suggestions inferred from them.
type Session struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Document is an uploaded source file tracked per session. ObjectKey points
// to the stored original in object storage; for web imports it holds the URL.
type Document struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id"`
	Name        string         `json:"name"`
	FileType    string         `json:"file_type"`
	ObjectKey   string         `json:"-"`
	Status      DocumentStatus `json:"status"`
	StatusError string         `json:"status_error,omitempty"`
	Text        string         `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SessionStorage persists sessions and their documents.
type SessionStorage interface {
	CreateSession(ctx context.Context, name string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error
	DeleteSession(ctx context.Context, id string) error

	CreateDocument(ctx context.Context, doc *Document) (*Document, error)
	GetDocument(ctx context.Context, sessionID string, id string) (*Document, error)
	ListDocuments(ctx context.Context, sessionID string) ([]Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status DocumentStatus, statusError string) error
	SetDocumentText(ctx context.Context, id string, text string) error
}

// GraphStorage persists causal graphs and the topics derived from them.
// ReplaceGraph swaps the stored graph of a session atomically so readers
// never observe a half-written graph.
type GraphStorage interface {
	ReplaceGraph(ctx context.Context, sessionID string, g *common.Graph) error
	GetGraph(ctx context.Context, sessionID string) (*common.Graph, error)
	UpdateClusters(ctx context.Context, sessionID string, clusters []common.Cluster) error
	DeleteGraph(ctx context.Context, sessionID string) error

	SaveTopics(ctx context.Context, sessionID string, topics []common.Topic) error
	GetTopics(ctx context.Context, sessionID string) ([]common.Topic, error)
}

// Storage bundles the session and graph stores; the pgx implementation
// satisfies both.
type Storage interface {
	SessionStorage
	GraphStorage
}
