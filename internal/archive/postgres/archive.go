// Package postgres mirrors committed transfers into a Postgres table for
// offline audit. The archive is write-only: the ledger never reads it back,
// so ledger state remains purely in-memory.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/ledgerhub/transfer-service/internal/interfaces"
	"github.com/ledgerhub/transfer-service/internal/models/events"
)

// Archive is a TransferSink backed by a Postgres table.
type Archive struct {
	db *sql.DB
}

// Open connects to Postgres with the given DSN and ensures the archive
// table exists.
func Open(dsn string) (*Archive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	const schema = `CREATE TABLE IF NOT EXISTS transfer_archive (
		from_id      uuid        NOT NULL,
		to_id        uuid        NOT NULL,
		amount       numeric     NOT NULL,
		committed_at timestamptz NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Archive{db: db}, nil
}

// Publish appends the committed transfer to the archive table.
func (a *Archive) Publish(ctx context.Context, event events.TransferCommitted) error {
	const query = `INSERT INTO transfer_archive (from_id, to_id, amount, committed_at)
	VALUES ($1, $2, $3, $4)`

	_, err := a.db.ExecContext(ctx, query, event.From, event.To, event.Amount, event.CommittedAt)
	return err
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

var _ interfaces.TransferSink = (*Archive)(nil)
