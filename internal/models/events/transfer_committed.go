package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferCommitted is the wire payload published to transfer sinks
// after the ledger engine commits a transfer.
type TransferCommitted struct {
	From        uuid.UUID       `json:"from"`
	To          uuid.UUID       `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	CommittedAt time.Time       `json:"committed_at"`
}
