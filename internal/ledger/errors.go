package ledger

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned when a transfer amount is zero or negative.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrInsufficientFunds is returned when the transmitter balance cannot
	// cover the transfer amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeBalance is returned when an account is created with a
	// negative initial balance.
	ErrNegativeBalance = errors.New("initial balance must not be negative")

	// ErrTimeout is returned when the execution lane did not complete the
	// operation within the submission timeout. The operation is not
	// cancelled and may still complete afterwards.
	ErrTimeout = errors.New("operation timed out")

	// ErrClosed is returned for operations submitted after the engine shut down.
	ErrClosed = errors.New("ledger engine is closed")
)

// NotFoundError reports the account ids a transfer or lookup referenced
// that do not exist.
type NotFoundError struct {
	IDs []uuid.UUID
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return "accounts with following ids do not exist: " + strings.Join(ids, ",")
}

// notFound builds a NotFoundError for the given ids.
func notFound(ids ...uuid.UUID) error {
	return &NotFoundError{IDs: ids}
}

// IsNotFound reports whether err is a missing-account failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
