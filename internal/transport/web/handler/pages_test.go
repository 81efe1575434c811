package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnucash-web/gnucash-web/internal/ledger"
	"github.com/gnucash-web/gnucash-web/pkg/logger"
)

type addCall struct {
	description string
	amount      decimal.Decimal
	debit       string
	credit      string
}

// stubLedger is a canned-response Ledger for handler tests.
type stubLedger struct {
	accounts []string
	balances []ledger.Balance
	records  []ledger.TransactionRecord
	failure  error
	addOK    bool
	adds     []addCall
}

func (s *stubLedger) ListAccounts() ([]string, error) {
	return s.accounts, s.failure
}

func (s *stubLedger) ListBalances() ([]ledger.Balance, error) {
	return s.balances, s.failure
}

func (s *stubLedger) RecentTransactions(n int) ([]ledger.TransactionRecord, error) {
	if len(s.records) > n {
		return s.records[:n], s.failure
	}
	return s.records, s.failure
}

func (s *stubLedger) AddTransaction(description string, amount decimal.Decimal, debit, credit string) bool {
	s.adds = append(s.adds, addCall{description: description, amount: amount, debit: debit, credit: credit})
	return s.addOK
}

func newTestPages(svc *stubLedger) *Pages {
	return NewPages(svc, NewFlashSigner("test-secret"), 50, logger.New("development", io.Discard))
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestIndexRendersAccountChoices(t *testing.T) {
	pages := newTestPages(&stubLedger{accounts: []string{"Assets:Cash", "Expenses:Food"}})

	w := httptest.NewRecorder()
	pages.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="Assets:Cash">`)
	assert.Contains(t, body, `<option value="Expenses:Food">`)
}

func TestIndexBookFailureRendersErrorPage(t *testing.T) {
	pages := newTestPages(&stubLedger{failure: errors.New("book is gone")})

	w := httptest.NewRecorder()
	pages.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something Went Wrong")
}

func TestSubmitSavesTransaction(t *testing.T) {
	svc := &stubLedger{addOK: true}
	pages := newTestPages(svc)

	w := httptest.NewRecorder()
	pages.Submit(w, postForm(url.Values{
		"debit":       {"Assets:Cash"},
		"credit":      {"Expenses:Food"},
		"amount":      {"12.50"},
		"description": {"Lunch"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	require.Len(t, svc.adds, 1)
	assert.Equal(t, "Lunch", svc.adds[0].description)
	assert.Equal(t, "Assets:Cash", svc.adds[0].debit)
	assert.Equal(t, "Expenses:Food", svc.adds[0].credit)
	assert.True(t, svc.adds[0].amount.Equal(decimal.RequireFromString("12.50")))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "a flash cookie must be set")
}

func TestSubmitRoundsAmountHalfUp(t *testing.T) {
	svc := &stubLedger{addOK: true}
	pages := newTestPages(svc)

	w := httptest.NewRecorder()
	pages.Submit(w, postForm(url.Values{
		"debit":       {"Assets:Cash"},
		"credit":      {"Expenses:Food"},
		"amount":      {"4.205"},
		"description": {"Snack"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, svc.adds, 1)
	assert.Equal(t, "4.21", svc.adds[0].amount.StringFixed(2))
}

func TestSubmitRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{
			name: "non-numeric amount",
			values: url.Values{
				"debit": {"Assets:Cash"}, "credit": {"Expenses:Food"},
				"amount": {"twelve"}, "description": {"Lunch"},
			},
		},
		{
			name: "missing description",
			values: url.Values{
				"debit": {"Assets:Cash"}, "credit": {"Expenses:Food"},
				"amount": {"12.50"}, "description": {""},
			},
		},
		{
			name: "missing accounts",
			values: url.Values{
				"amount": {"12.50"}, "description": {"Lunch"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubLedger{addOK: true}
			pages := newTestPages(svc)

			w := httptest.NewRecorder()
			pages.Submit(w, postForm(tt.values))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Empty(t, svc.adds, "invalid input must not reach the ledger")
		})
	}
}

func TestTransactionsPage(t *testing.T) {
	pages := newTestPages(&stubLedger{records: []ledger.TransactionRecord{
		{Date: "2021-06-01", Source: "Assets:Cash", Dest: "Expenses:Food", Description: "Lunch", Amount: "$12.50"},
	}})

	w := httptest.NewRecorder()
	pages.Transactions(w, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Lunch")
	assert.Contains(t, body, "$12.50")
	assert.Contains(t, body, "Assets:Cash")
}

func TestBalancesPage(t *testing.T) {
	pages := newTestPages(&stubLedger{balances: []ledger.Balance{
		{FullName: "Assets ➔ Cash", Balance: "$1,234.50"},
	}})

	w := httptest.NewRecorder()
	pages.Balances(w, httptest.NewRequest(http.MethodGet, "/balances", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Assets ➔ Cash")
	assert.Contains(t, body, "$1,234.50")
}

func TestNotFoundPage(t *testing.T) {
	pages := newTestPages(&stubLedger{})

	w := httptest.NewRecorder()
	pages.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
}
