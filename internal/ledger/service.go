package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gnucash-web/gnucash-web/internal/gnucash"
	"github.com/gnucash-web/gnucash-web/pkg/logger"
	"github.com/gnucash-web/gnucash-web/pkg/money"
)

// DefaultTransactionCount is how many transactions RecentTransactions
// returns when no count is given.
const DefaultTransactionCount = 50

// NameSeparator joins hierarchy levels in balance display names.
const NameSeparator = " ➔ "

// Service implements the ledger operations. Every operation opens the book,
// performs one read or one read-modify-write and closes it again; nothing is
// cached between calls.
type Service struct {
	cfg Config
	log *logger.Logger
}

// NewService creates a ledger service over the book named in cfg.
func NewService(cfg Config, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

func (s *Service) openBook(readOnly bool) (*gnucash.Book, error) {
	return gnucash.Open(s.cfg.BookPath, gnucash.Options{
		ReadOnly:   readOnly,
		IgnoreLock: true,
	})
}

// ListAccounts returns the full names of every account in the book,
// lexicographically sorted.
func (s *Service) ListAccounts() ([]string, error) {
	book, err := s.openBook(true)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	accounts, err := book.Accounts()
	if err != nil {
		return nil, err
	}
	return gnucash.NewAccountIndex(accounts).FullNames(), nil
}

// ListBalances returns every account with its formatted balance, sorted
// ascending by display name. Balances are recursive (an account includes its
// descendants) and carry the natural display sign of the account type.
func (s *Service) ListBalances() ([]Balance, error) {
	book, err := s.openBook(true)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	accounts, err := book.Accounts()
	if err != nil {
		return nil, err
	}
	splits, err := book.Splits()
	if err != nil {
		return nil, err
	}

	ix := gnucash.NewAccountIndex(accounts)
	sums := gnucash.SplitSums(splits)

	var balances []Balance
	for _, a := range ix.Listed() {
		balances = append(balances, Balance{
			FullName: strings.ReplaceAll(ix.FullName(a.GUID), ":", NameSeparator),
			Balance:  money.FormatUSD(ix.Balance(a.GUID, sums)),
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].FullName < balances[j].FullName })

	return balances, nil
}

// RecentTransactions returns up to n transactions, most recent first. A
// transaction that does not have exactly two splits is logged and skipped;
// bad rows never abort the rest of the listing.
func (s *Service) RecentTransactions(n int) ([]TransactionRecord, error) {
	if n <= 0 {
		n = DefaultTransactionCount
	}

	book, err := s.openBook(true)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	accounts, err := book.Accounts()
	if err != nil {
		return nil, err
	}
	ix := gnucash.NewAccountIndex(accounts)

	txns, err := book.LastTransactions(n)
	if err != nil {
		return nil, err
	}
	s.log.Debug("loaded transactions for listing", "requested", n, "loaded", len(txns))

	records := make([]TransactionRecord, 0, len(txns))
	for i := range txns {
		rec, err := s.normalize(&txns[i], ix)
		if err != nil {
			s.log.Error("skipping malformed transaction",
				"txn", txns[i].GUID,
				"splits", len(txns[i].Splits),
				"error", err,
			)
			continue
		}
		records = append(records, *rec)
	}

	return records, nil
}

// normalize turns a raw book transaction into a display record. The split
// with the negative value is treated as the source (debit) side and the
// positive one as the destination (credit) side; that is this system's
// convention, inherited from the original books, not standard accounting
// terminology.
func (s *Service) normalize(txn *gnucash.Transaction, ix *gnucash.AccountIndex) (*TransactionRecord, error) {
	if len(txn.Splits) != 2 {
		return nil, ErrNotTwoSplits
	}

	source, dest := &txn.Splits[0], &txn.Splits[1]
	if source.Value().IsPositive() {
		source, dest = dest, source
	}

	date := txn.EnterDate
	if t, err := gnucash.ParseTime(txn.EnterDate); err == nil {
		date = t.Format("2006-01-02")
	}

	return &TransactionRecord{
		Date:        date,
		Source:      ix.FullName(source.AccountGUID),
		Dest:        ix.FullName(dest.AccountGUID),
		Description: txn.Description,
		Amount:      money.FormatUSDAbs(dest.Value()),
	}, nil
}

// AddTransaction appends a balanced two-split USD transaction: +amount on the
// credit account, -amount on the debit account, then saves the book. Returns
// whether the transaction was persisted; every failure mode is logged and
// non-fatal.
func (s *Service) AddTransaction(description string, amount decimal.Decimal, debitAccount, creditAccount string) bool {
	if err := s.addTransaction(description, amount, debitAccount, creditAccount); err != nil {
		s.log.WithError(err).Error("failed to add transaction",
			"debit", debitAccount,
			"credit", creditAccount,
			"amount", amount.String(),
		)
		return false
	}
	s.log.Info("successfully saved transaction",
		"debit", debitAccount,
		"credit", creditAccount,
		"amount", amount.String(),
	)
	return true
}

func (s *Service) addTransaction(description string, amount decimal.Decimal, debitAccount, creditAccount string) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	book, err := s.openBook(false)
	if err != nil {
		return err
	}
	defer book.Close()

	accounts, err := book.Accounts()
	if err != nil {
		return err
	}
	ix := gnucash.NewAccountIndex(accounts)

	credit := ix.FindByFullName(creditAccount)
	if credit == nil {
		return fmt.Errorf("%w: credit account %q", ErrAccountNotFound, creditAccount)
	}
	debit := ix.FindByFullName(debitAccount)
	if debit == nil {
		return fmt.Errorf("%w: debit account %q", ErrAccountNotFound, debitAccount)
	}

	usd, err := book.Currency("USD")
	if err != nil {
		return err
	}
	num, err := gnucash.DecimalToNumeric(amount, usd.Fraction)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	now := gnucash.FormatTime(time.Now())
	txn := gnucash.Transaction{
		GUID:         gnucash.NewGUID(),
		CurrencyGUID: usd.GUID,
		PostDate:     now,
		EnterDate:    now,
		Description:  description,
		Splits: []gnucash.Split{
			{
				GUID:           gnucash.NewGUID(),
				AccountGUID:    credit.GUID,
				ReconcileState: "n",
				ValueNum:       num,
				ValueDenom:     usd.Fraction,
				QuantityNum:    num,
				QuantityDenom:  usd.Fraction,
			},
			{
				GUID:           gnucash.NewGUID(),
				AccountGUID:    debit.GUID,
				ReconcileState: "n",
				ValueNum:       -num,
				ValueDenom:     usd.Fraction,
				QuantityNum:    -num,
				QuantityDenom:  usd.Fraction,
			},
		},
	}

	return book.SaveTransaction(&txn)
}

// AddAccount creates a new USD expense account under the named parent.
// Administrative; used for book setup, not by the web flows. Returns whether
// the account was persisted.
func (s *Service) AddAccount(name, parentFullName string) bool {
	if err := s.addAccount(name, parentFullName); err != nil {
		s.log.WithError(err).Error("failed to add account",
			"name", name,
			"parent", parentFullName,
		)
		return false
	}
	s.log.Info("successfully saved account", "name", name, "parent", parentFullName)
	return true
}

func (s *Service) addAccount(name, parentFullName string) error {
	book, err := s.openBook(false)
	if err != nil {
		return err
	}
	defer book.Close()

	accounts, err := book.Accounts()
	if err != nil {
		return err
	}
	ix := gnucash.NewAccountIndex(accounts)

	parent := ix.FindByFullName(parentFullName)
	if parent == nil {
		return fmt.Errorf("%w: %q", ErrParentNotFound, parentFullName)
	}
	for _, a := range accounts {
		if a.ParentGUID != nil && *a.ParentGUID == parent.GUID &&
			strings.EqualFold(a.Name, name) {
			return fmt.Errorf("%w: %q under %q", ErrDuplicateAccount, name, parentFullName)
		}
	}

	usd, err := book.Currency("USD")
	if err != nil {
		return err
	}

	return book.SaveAccount(&gnucash.Account{
		GUID:          gnucash.NewGUID(),
		Name:          name,
		AccountType:   gnucash.AccountTypeExpense,
		CommodityGUID: usd.GUID,
		CommoditySCU:  usd.Fraction,
		ParentGUID:    &parent.GUID,
	})
}
