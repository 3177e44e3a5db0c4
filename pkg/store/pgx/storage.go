package pgx

import (
	"context"
	"sync"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
	SendBatch(ctx context.Context, b *pgxv5.Batch) pgxv5.BatchResults
}

// GraphDBStorage implements the store interfaces using PostgreSQL with
// pgvector for variable embeddings. Graph replacement runs in a single
// transaction so readers never observe a half-written graph.
type GraphDBStorage struct {
	conn   pgxIConn
	dbLock sync.Mutex
}

// NewGraphDBStorageWithConnection creates a new GraphDBStorage using an
// existing database connection or pool.
func NewGraphDBStorageWithConnection(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{
		conn:   conn,
		dbLock: sync.Mutex{},
	}
}
