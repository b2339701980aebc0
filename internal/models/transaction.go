package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferTransaction is a committed transfer between two accounts.
// Entries are immutable once recorded; deleting an account does not
// rewrite its history.
type TransferTransaction struct {
	From      uuid.UUID       `json:"from"`
	To        uuid.UUID       `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewTransferTransaction records a transfer committed at the given time.
func NewTransferTransaction(from, to uuid.UUID, amount decimal.Decimal, ts time.Time) TransferTransaction {
	return TransferTransaction{
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: ts,
	}
}
