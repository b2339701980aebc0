package interfaces

import (
	"context"

	"github.com/ledgerhub/transfer-service/internal/models/events"
)

// TransferSink receives committed transfers as a best-effort side channel.
// Sinks observe the ledger; they are never part of its consistency.
type TransferSink interface {
	Publish(ctx context.Context, event events.TransferCommitted) error
	Close() error
}
