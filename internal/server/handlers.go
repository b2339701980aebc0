// Package server is the HTTP adapter over the ledger engine. It only parses
// requests, calls the engine and maps outcomes to status codes; every
// business rule lives in the engine.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerhub/transfer-service/internal/ledger"
	"github.com/ledgerhub/transfer-service/internal/query"
)

// Transfer and account-creation query parameter names.
const (
	paramID      = "id"
	paramBalance = "balance"
	paramFrom    = "from"
	paramTo      = "to"
	paramAmount  = "amount"
)

// Handlers serves the account and transaction endpoints.
type Handlers struct {
	engine *ledger.Engine
	logger zerolog.Logger
}

// NewHandlers creates the HTTP handlers around the given engine.
func NewHandlers(engine *ledger.Engine, logger zerolog.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		logger: logger,
	}
}

// ListAccounts handles GET /accounts.
func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.engine.ListAccounts(r.Context())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /accounts/{id}.
func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, paramID))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, ok, err := h.engine.GetAccount(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "account not found: "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST /accounts. Both query parameters are optional:
// an absent id means a generated one, an absent balance means zero.
func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get(paramID)
	rawBalance := r.URL.Query().Get(paramBalance)

	if rawID == "" && rawBalance == "" {
		account, err := h.engine.CreateAccount(r.Context())
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		w.Header().Set("Location", "/accounts/"+account.ID.String())
		writeJSON(w, http.StatusCreated, account)
		return
	}

	id := uuid.New()
	if rawID != "" {
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid account id")
			return
		}
		id = parsed
	}

	balance := decimal.Zero
	if rawBalance != "" {
		parsed, err := decimal.NewFromString(rawBalance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid balance")
			return
		}
		balance = parsed
	}

	account, err := h.engine.CreateAccountWith(r.Context(), id, balance)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.Header().Set("Location", "/accounts/"+account.ID.String())
	writeJSON(w, http.StatusCreated, account)
}

// DeleteAccount handles DELETE /accounts/{id}.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, paramID))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	removed, err := h.engine.DeleteAccount(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "account not found: "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// QueryTransactions handles GET /transactions with optional from_id, to_id,
// from_date and to_date filters.
func (h *Handlers) QueryTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := query.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.engine.QueryTransactions(r.Context(), criteria)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// Transfer handles POST /transactions/transfer?from&to&amount.
func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	for _, name := range []string{paramFrom, paramTo, paramAmount} {
		if params.Get(name) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("parameter %q is required", name))
			return
		}
	}

	from, err := uuid.Parse(params.Get(paramFrom))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transmitter id")
		return
	}
	to, err := uuid.Parse(params.Get(paramTo))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipient id")
		return
	}
	amount, err := decimal.NewFromString(params.Get(paramAmount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if err := h.engine.Transfer(r.Context(), from, to, amount); err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeEngineError maps engine failures to status codes: not-found 404,
// validation 400, insufficient funds 422, lane timeout or shutdown 503,
// anything else 500.
func (h *Handlers) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrNegativeBalance):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrTimeout), errors.Is(err, ledger.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unexpected ledger failure")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
