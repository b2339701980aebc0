package storage

import (
	"github.com/rs/zerolog"

	"github.com/ledgerhub/transfer-service/internal/models"
)

// TransactionLog is an append-only in-memory sequence of committed transfers.
// Like AccountStore it holds no lock of its own; the engine's lane serializes
// every access.
type TransactionLog struct {
	transactions []models.TransferTransaction
	logger       zerolog.Logger
}

// NewTransactionLog creates an empty transaction log.
func NewTransactionLog(logger zerolog.Logger) *TransactionLog {
	return &TransactionLog{
		transactions: make([]models.TransferTransaction, 0),
		logger:       logger,
	}
}

// Append adds a transaction to the end of the log. Self-transfers are not
// recorded: their balance effect nets to zero and logging them would only
// pollute the audit trail, so they are dropped with a warning.
func (l *TransactionLog) Append(tx models.TransferTransaction) {
	if tx.From == tx.To {
		l.logger.Warn().
			Str("account_id", tx.From.String()).
			Str("amount", tx.Amount.String()).
			Msg("dropping self-transfer from transaction log")
		return
	}
	l.transactions = append(l.transactions, tx)
}

// All returns the full history in insertion order.
func (l *TransactionLog) All() []models.TransferTransaction {
	all := make([]models.TransferTransaction, len(l.transactions))
	copy(all, l.transactions)
	return all
}

// Filter returns the transactions matching pred, preserving insertion order.
func (l *TransactionLog) Filter(pred func(models.TransferTransaction) bool) []models.TransferTransaction {
	matched := make([]models.TransferTransaction, 0)
	for _, tx := range l.transactions {
		if pred(tx) {
			matched = append(matched, tx)
		}
	}
	return matched
}

// Len reports the number of logged transactions.
func (l *TransactionLog) Len() int {
	return len(l.transactions)
}
