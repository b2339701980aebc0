package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a user account holding a balance.
// The balance is only ever mutated by the ledger engine; it never goes negative.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount creates an account with a fresh id and zero balance.
func NewAccount() *Account {
	return &Account{
		ID:      uuid.New(),
		Balance: decimal.Zero,
	}
}

// NewAccountWith creates an account with a caller-supplied id and initial balance.
func NewAccountWith(id uuid.UUID, balance decimal.Decimal) *Account {
	return &Account{
		ID:      id,
		Balance: balance,
	}
}
