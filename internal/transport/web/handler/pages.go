// Package handler renders the HTML pages of the web front-end.
package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gnucash-web/gnucash-web/internal/ledger"
	"github.com/gnucash-web/gnucash-web/pkg/logger"
)

//go:embed templates
var templateFS embed.FS

// Ledger is the slice of the ledger service the pages need.
type Ledger interface {
	ListAccounts() ([]string, error)
	ListBalances() ([]ledger.Balance, error)
	RecentTransactions(n int) ([]ledger.TransactionRecord, error)
	AddTransaction(description string, amount decimal.Decimal, debitAccount, creditAccount string) bool
}

// Pages serves the transaction form, the transactions listing, the balances
// listing and the error pages.
type Pages struct {
	svc             Ledger
	log             *logger.Logger
	flash           *FlashSigner
	numTransactions int
	tmpl            *template.Template
}

// NewPages creates the page handler set.
func NewPages(svc Ledger, flash *FlashSigner, numTransactions int, log *logger.Logger) *Pages {
	return &Pages{
		svc:             svc,
		log:             log,
		flash:           flash,
		numTransactions: numTransactions,
		tmpl:            template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Index serves the transaction entry form.
func (p *Pages) Index(w http.ResponseWriter, r *http.Request) {
	accounts, err := p.svc.ListAccounts()
	if err != nil {
		p.log.WithContext(r.Context()).WithError(err).Error("failed to list accounts for form")
		p.ServerError(w, r)
		return
	}

	p.render(w, "index.html", http.StatusOK, map[string]any{
		"Accounts": accounts,
		"Flash":    p.flash.Pop(w, r),
	})
}

// Submit handles the transaction form post: validate, add, flash, redirect.
func (p *Pages) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.flash.Set(w, FlashDanger, "Could not read the submitted form.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	debit := strings.TrimSpace(r.PostFormValue("debit"))
	credit := strings.TrimSpace(r.PostFormValue("credit"))
	description := strings.TrimSpace(r.PostFormValue("description"))
	amountRaw := strings.TrimSpace(r.PostFormValue("amount"))

	if debit == "" || credit == "" || description == "" || amountRaw == "" {
		p.flash.Set(w, FlashDanger, "All fields are required.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		p.flash.Set(w, FlashDanger, "Amount must be a decimal number. Do not include a dollar sign or a comma.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	// half-up rounding at the input boundary; the ledger only sees two
	// fractional digits
	amount = amount.Round(2)

	if p.svc.AddTransaction(description, amount, debit, credit) {
		p.flash.Set(w, FlashSuccess, fmt.Sprintf("Transaction for %s saved to GnuCash file.", amount.StringFixed(2)))
	} else {
		p.flash.Set(w, FlashDanger, fmt.Sprintf("Transaction for %s was not saved to GnuCash file.", amount.StringFixed(2)))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Transactions serves the recent transactions listing.
func (p *Pages) Transactions(w http.ResponseWriter, r *http.Request) {
	records, err := p.svc.RecentTransactions(p.numTransactions)
	if err != nil {
		p.log.WithContext(r.Context()).WithError(err).Error("failed to list transactions")
		p.ServerError(w, r)
		return
	}

	p.render(w, "transactions.html", http.StatusOK, map[string]any{
		"Transactions": records,
		"N":            p.numTransactions,
	})
}

// Balances serves the account balances listing.
func (p *Pages) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := p.svc.ListBalances()
	if err != nil {
		p.log.WithContext(r.Context()).WithError(err).Error("failed to list balances")
		p.ServerError(w, r)
		return
	}

	p.render(w, "balances.html", http.StatusOK, map[string]any{
		"Accounts": balances,
	})
}

// NotFound serves the 404 page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, "404.html", http.StatusNotFound, nil)
}

// ServerError serves the 500 page.
func (p *Pages) ServerError(w http.ResponseWriter, r *http.Request) {
	p.render(w, "500.html", http.StatusInternalServerError, nil)
}

func (p *Pages) render(w http.ResponseWriter, name string, status int, data any) {
	if data == nil {
		data = map[string]any{}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		p.log.WithError(err).Error("failed to render template", "template", name)
	}
}
