// Package ledger implements the account ledger engine: a single serialized
// execution lane that owns the account store and transaction log and runs
// every operation against them one at a time.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerhub/transfer-service/internal/interfaces"
	"github.com/ledgerhub/transfer-service/internal/models"
	"github.com/ledgerhub/transfer-service/internal/models/events"
	"github.com/ledgerhub/transfer-service/internal/query"
	"github.com/ledgerhub/transfer-service/internal/storage"
)

const (
	// DefaultSubmitTimeout bounds how long a caller waits for the lane to
	// complete an operation.
	DefaultSubmitTimeout = time.Second

	// DefaultQueueDepth is the admission queue capacity of the lane.
	DefaultQueueDepth = 64

	// notifyBufferSize bounds the transfer-notification buffer between the
	// lane and the sink fanout goroutine.
	notifyBufferSize = 256
)

// Config tunes the engine's submission behavior.
type Config struct {
	// SubmitTimeout is the caller-side wait budget per operation.
	// Zero means DefaultSubmitTimeout.
	SubmitTimeout time.Duration

	// QueueDepth is the lane admission queue capacity.
	// Zero means DefaultQueueDepth.
	QueueDepth int
}

// Engine owns the account store and transaction log. All operations, reads
// included, go through one worker goroutine, so no two operations ever
// interleave and the transfer check-then-mutate sequence cannot race.
//
// Submission is asynchronous with a bounded wait: when the wait times out the
// caller gets ErrTimeout but the queued operation is not cancelled and may
// still complete in the lane afterwards.
type Engine struct {
	accounts *storage.AccountStore
	txlog    *storage.TransactionLog

	tasks   chan func()
	timeout time.Duration

	sinks    []interfaces.TransferSink
	notify   chan models.TransferTransaction
	sinkDone chan struct{}

	closed    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewEngine creates an engine with empty stores and starts its worker.
// Sinks, if any, receive committed transfers outside the lane.
func NewEngine(cfg Config, logger zerolog.Logger, sinks ...interfaces.TransferSink) *Engine {
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}

	e := &Engine{
		accounts: storage.NewAccountStore(),
		txlog:    storage.NewTransactionLog(logger),
		tasks:    make(chan func(), cfg.QueueDepth),
		timeout:  cfg.SubmitTimeout,
		sinks:    sinks,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}

	if len(sinks) > 0 {
		e.notify = make(chan models.TransferTransaction, notifyBufferSize)
		e.sinkDone = make(chan struct{})
		go e.fanout()
	}

	go e.run()
	return e
}

// Close stops the engine. Queued operations are drained before the worker
// exits; sinks receive any pending notifications before fanout stops.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.closed)
		<-e.done
		if e.notify != nil {
			close(e.notify)
			<-e.sinkDone
		}
	})
}

// run is the single serialized lane.
func (e *Engine) run() {
	for {
		select {
		case task := <-e.tasks:
			task()
		case <-e.closed:
			for {
				select {
				case task := <-e.tasks:
					task()
				default:
					close(e.done)
					return
				}
			}
		}
	}
}

// fanout delivers committed transfers to the configured sinks.
// Sink failures are logged and otherwise ignored.
func (e *Engine) fanout() {
	defer close(e.sinkDone)
	for tx := range e.notify {
		event := events.TransferCommitted{
			From:        tx.From,
			To:          tx.To,
			Amount:      tx.Amount,
			CommittedAt: tx.Timestamp,
		}
		for _, sink := range e.sinks {
			if err := sink.Publish(context.Background(), event); err != nil {
				e.logger.Warn().Err(err).
					Str("from", tx.From.String()).
					Str("to", tx.To.String()).
					Msg("transfer sink publish failed")
			}
		}
	}
}

// submit queues op on the lane and waits for it to complete. The returned
// error concerns submission only; op communicates its own result through
// captured variables, which the caller must read only on a nil return.
func (e *Engine) submit(ctx context.Context, op func()) error {
	select {
	case <-e.closed:
		return ErrClosed
	default:
	}

	completed := make(chan struct{})
	wrapped := func() {
		op()
		close(completed)
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case e.tasks <- wrapped:
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	case <-e.closed:
		return ErrClosed
	}

	select {
	case <-completed:
		return nil
	case <-timer.C:
		// The operation stays queued and will still run; the caller only
		// loses the ability to observe its result through this call.
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateAccount creates an account with a generated id and zero balance.
func (e *Engine) CreateAccount(ctx context.Context) (models.Account, error) {
	var created models.Account
	err := e.submit(ctx, func() {
		account := models.NewAccount()
		e.accounts.Put(account)
		created = *account
	})
	if err != nil {
		return models.Account{}, err
	}
	return created, nil
}

// CreateAccountWith creates an account with a caller-supplied id and initial
// balance. A negative balance is rejected with ErrNegativeBalance.
//
// An existing account with the same id is silently overwritten, losing its
// balance. That mirrors the store's put semantics; rejecting duplicates is a
// behavior change that needs product sign-off first.
func (e *Engine) CreateAccountWith(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (models.Account, error) {
	if balance.Cmp(decimal.Zero) < 0 {
		e.logger.Warn().
			Str("account_id", id.String()).
			Str("balance", balance.String()).
			Msg("rejecting account creation with negative balance")
		return models.Account{}, ErrNegativeBalance
	}

	var created models.Account
	err := e.submit(ctx, func() {
		account := models.NewAccountWith(id, balance)
		e.accounts.Put(account)
		created = *account
	})
	if err != nil {
		return models.Account{}, err
	}
	return created, nil
}

// DeleteAccount removes the account by id and reports whether it existed.
// Deletion is unconditional; past transactions referencing the id remain.
func (e *Engine) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool
	err := e.submit(ctx, func() {
		removed = e.accounts.Remove(id)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// GetAccount returns the account for id, or false if it does not exist.
func (e *Engine) GetAccount(ctx context.Context, id uuid.UUID) (models.Account, bool, error) {
	var (
		account models.Account
		ok      bool
	)
	err := e.submit(ctx, func() {
		stored, found := e.accounts.Get(id)
		if found {
			account = *stored
			ok = true
		}
	})
	if err != nil {
		return models.Account{}, false, err
	}
	return account, ok, nil
}

// ListAccounts returns all accounts. Order is not significant.
func (e *Engine) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var all []models.Account
	err := e.submit(ctx, func() {
		all = e.accounts.List()
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Transfer moves amount from one account to another as a single indivisible
// operation. It fails without mutating anything when either account is
// missing, the amount is not positive, or the transmitter balance is too low.
func (e *Engine) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	var opErr error
	if err := e.submit(ctx, func() {
		opErr = e.applyTransfer(from, to, amount)
	}); err != nil {
		return err
	}
	return opErr
}

// applyTransfer runs inside the lane. Checks first, then log append, then
// debit and credit; nothing is mutated unless every check passes.
func (e *Engine) applyTransfer(from, to uuid.UUID, amount decimal.Decimal) error {
	fromAccount, fromOK := e.accounts.Get(from)
	toAccount, toOK := e.accounts.Get(to)

	if !fromOK || !toOK {
		missing := make([]uuid.UUID, 0, 2)
		if !fromOK {
			missing = append(missing, from)
		}
		if !toOK {
			missing = append(missing, to)
		}
		for _, id := range missing {
			e.logger.Warn().Str("account_id", id.String()).Msg("transfer references missing account")
		}
		return notFound(missing...)
	}

	if amount.Cmp(decimal.Zero) <= 0 {
		e.logger.Warn().Str("amount", amount.String()).Msg("rejecting non-positive transfer amount")
		return ErrInvalidAmount
	}

	if fromAccount.Balance.Cmp(amount) < 0 {
		e.logger.Warn().
			Str("from", from.String()).
			Str("balance", fromAccount.Balance.String()).
			Str("amount", amount.String()).
			Msg("rejecting transfer: insufficient funds")
		return ErrInsufficientFunds
	}

	tx := models.NewTransferTransaction(from, to, amount, time.Now())
	e.txlog.Append(tx)

	fromAccount.Balance = fromAccount.Balance.Sub(amount)
	toAccount.Balance = toAccount.Balance.Add(amount)

	// Self-transfers are absent from the log, so sinks must not see them either.
	if e.notify != nil && from != to {
		select {
		case e.notify <- tx:
		default:
			e.logger.Warn().Msg("transfer notification buffer full, dropping event")
		}
	}

	return nil
}

// QueryTransactions returns the transactions matching the given criteria in
// insertion order. Empty criteria return the full history.
func (e *Engine) QueryTransactions(ctx context.Context, criteria query.Criteria) ([]models.TransferTransaction, error) {
	var matched []models.TransferTransaction
	err := e.submit(ctx, func() {
		matched = e.txlog.Filter(criteria.Matches)
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}
