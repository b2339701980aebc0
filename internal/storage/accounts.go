package storage

import (
	"github.com/google/uuid"

	"github.com/ledgerhub/transfer-service/internal/models"
)

// AccountStore is an in-memory table of accounts keyed by id.
// It holds no lock of its own: the ledger engine serializes every access
// through its single execution lane, so the store stays plain data access.
type AccountStore struct {
	accounts map[uuid.UUID]*models.Account
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uuid.UUID]*models.Account),
	}
}

// Put inserts the account, overwriting any existing account with the same id.
func (s *AccountStore) Put(account *models.Account) {
	s.accounts[account.ID] = account
}

// Remove deletes the account by id and reports whether it was present.
func (s *AccountStore) Remove(id uuid.UUID) bool {
	if _, ok := s.accounts[id]; !ok {
		return false
	}
	delete(s.accounts, id)
	return true
}

// Get returns the stored account for id, or false if it does not exist.
// The returned pointer is the live account object; only the engine may
// mutate it.
func (s *AccountStore) Get(id uuid.UUID) (*models.Account, bool) {
	account, ok := s.accounts[id]
	return account, ok
}

// List returns copies of all accounts. Order is not significant.
func (s *AccountStore) List() []models.Account {
	all := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		all = append(all, *account)
	}
	return all
}

// Len reports the number of stored accounts.
func (s *AccountStore) Len() int {
	return len(s.accounts)
}
