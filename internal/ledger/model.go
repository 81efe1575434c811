// Package ledger implements the business logic of the web front-end: listing
// accounts and balances, reading recent transactions and appending new ones
// to a GnuCash book.
package ledger

// Config carries the per-service settings. The book path travels here
// explicitly; there is no process-wide book state.
type Config struct {
	// BookPath is the full path of the GnuCash book file.
	BookPath string
}

// Balance is one row of the balances listing: the display name of an account
// (hierarchy levels joined with an arrow) and its formatted balance.
type Balance struct {
	FullName string
	Balance  string
}

// TransactionRecord is one row of the transactions listing, normalized for
// display.
type TransactionRecord struct {
	// Date is the enter date, yyyy-mm-dd.
	Date string
	// Source is the full name of the account money left.
	Source string
	// Dest is the full name of the account money entered.
	Dest string
	Description string
	// Amount is the always-positive formatted value, e.g. "$12.50".
	Amount string
}
