package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerhub/transfer-service/internal/ledger"
	"github.com/ledgerhub/transfer-service/internal/models"
)

func newTestRouter(t *testing.T) (http.Handler, *ledger.Engine) {
	t.Helper()
	engine := ledger.NewEngine(ledger.Config{}, zerolog.Nop())
	t.Cleanup(engine.Close)
	handlers := NewHandlers(engine, zerolog.Nop())
	return NewRouter(handlers, zerolog.Nop()), engine
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createAccount(t *testing.T, engine *ledger.Engine, balance int64) uuid.UUID {
	t.Helper()
	account, err := engine.CreateAccountWith(context.Background(), uuid.New(), decimal.NewFromInt(balance))
	if err != nil {
		t.Fatal(err)
	}
	return account.ID
}

func TestCreateAccountEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/accounts?balance=100")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201", rec.Code)
	}

	var account models.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatal(err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance=%s, want 100", account.Balance)
	}
	if want := "/accounts/" + account.ID.String(); rec.Header().Get("Location") != want {
		t.Fatalf("Location=%q, want %q", rec.Header().Get("Location"), want)
	}
}

func TestCreateAccountEndpointDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/accounts")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201", rec.Code)
	}

	var account models.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatal(err)
	}
	if account.ID == uuid.Nil || !account.Balance.IsZero() {
		t.Fatalf("want generated id and zero balance, got %+v", account)
	}
}

func TestCreateAccountEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodPost, "/accounts?id=oops"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status=%d, want 400", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodPost, "/accounts?balance=abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad balance: status=%d, want 400", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodPost, "/accounts?balance=-5"); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative balance: status=%d, want 400", rec.Code)
	}
}

func TestGetAccountEndpoint(t *testing.T) {
	router, engine := newTestRouter(t)
	id := createAccount(t, engine, 42)

	rec := doRequest(t, router, http.MethodGet, "/accounts/"+id.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}

	var account models.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatal(err)
	}
	if account.ID != id || !account.Balance.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("got %+v", account)
	}

	if rec := doRequest(t, router, http.MethodGet, "/accounts/"+uuid.New().String()); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status=%d, want 404", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/accounts/not-a-uuid"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status=%d, want 400", rec.Code)
	}
}

func TestListAccountsEndpoint(t *testing.T) {
	router, engine := newTestRouter(t)
	createAccount(t, engine, 1)
	createAccount(t, engine, 2)

	rec := doRequest(t, router, http.MethodGet, "/accounts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}

	var accounts []models.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("len=%d, want 2", len(accounts))
	}
}

func TestDeleteAccountEndpoint(t *testing.T) {
	router, engine := newTestRouter(t)
	id := createAccount(t, engine, 0)

	if rec := doRequest(t, router, http.MethodDelete, "/accounts/"+id.String()); rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodDelete, "/accounts/"+id.String()); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status=%d, want 404", rec.Code)
	}
}

func TestTransferEndpoint(t *testing.T) {
	router, engine := newTestRouter(t)
	a := createAccount(t, engine, 100)
	b := createAccount(t, engine, 100)

	transfer := func(from, to, amount string) *httptest.ResponseRecorder {
		params := url.Values{}
		params.Set("from", from)
		params.Set("to", to)
		params.Set("amount", amount)
		return doRequest(t, router, http.MethodPost, "/transactions/transfer?"+params.Encode())
	}

	if rec := transfer(a.String(), b.String(), "10"); rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", rec.Code, rec.Body)
	}
	if rec := transfer(a.String(), b.String(), "-10"); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative amount: status=%d, want 400", rec.Code)
	}
	if rec := transfer(a.String(), b.String(), "100000"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("insufficient funds: status=%d, want 422", rec.Code)
	}
	if rec := transfer(uuid.New().String(), b.String(), "10"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown sender: status=%d, want 404", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodPost, "/transactions/transfer?from="+a.String()); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing params: status=%d, want 400", rec.Code)
	}

	account, _, err := engine.GetAccount(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("a=%s, want 90 (only the valid transfer applied)", account.Balance)
	}
}

func TestQueryTransactionsEndpoint(t *testing.T) {
	router, engine := newTestRouter(t)
	a := createAccount(t, engine, 100)
	b := createAccount(t, engine, 100)
	c := createAccount(t, engine, 100)

	for _, tr := range []struct{ from, to uuid.UUID }{{a, b}, {a, c}, {b, c}} {
		if err := engine.Transfer(context.Background(), tr.from, tr.to, decimal.NewFromInt(1)); err != nil {
			t.Fatal(err)
		}
	}

	var all []models.TransferTransaction
	rec := doRequest(t, router, http.MethodGet, "/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len=%d, want 3", len(all))
	}

	var fromA []models.TransferTransaction
	rec = doRequest(t, router, http.MethodGet, "/transactions?from_id="+a.String())
	if err := json.Unmarshal(rec.Body.Bytes(), &fromA); err != nil {
		t.Fatal(err)
	}
	if len(fromA) != 2 {
		t.Fatalf("from_id=a len=%d, want 2", len(fromA))
	}

	if rec := doRequest(t, router, http.MethodGet, "/transactions?from_id=oops"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed filter: status=%d, want 400", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/transactions?from_date=yesterday"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed date: status=%d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
}
