// Package gnucash reads and writes GnuCash books stored in the SQLite book
// format. The schema mapping follows the tables GnuCash itself maintains
// (commodities, accounts, transactions, splits, gnclock); all SQL plumbing is
// delegated to gorm.
package gnucash

import (
	"strings"

	"github.com/google/uuid"
)

// Account types as stored in the accounts.account_type column.
const (
	AccountTypeRoot       = "ROOT"
	AccountTypeAsset      = "ASSET"
	AccountTypeBank       = "BANK"
	AccountTypeCash       = "CASH"
	AccountTypeCredit     = "CREDIT"
	AccountTypeEquity     = "EQUITY"
	AccountTypeExpense    = "EXPENSE"
	AccountTypeIncome     = "INCOME"
	AccountTypeLiability  = "LIABILITY"
	AccountTypePayable    = "PAYABLE"
	AccountTypeReceivable = "RECEIVABLE"
)

// CurrencyNamespace is the commodity namespace GnuCash uses for currencies.
const CurrencyNamespace = "CURRENCY"

// RootAccountName is the name GnuCash gives the top-level account.
const RootAccountName = "Root Account"

// Commodity is a row of the commodities table. For this system only
// currencies are of interest, USD in particular.
type Commodity struct {
	GUID        string `gorm:"column:guid;primaryKey"`
	Namespace   string `gorm:"column:namespace"`
	Mnemonic    string `gorm:"column:mnemonic"`
	Fullname    string `gorm:"column:fullname"`
	CUSIP       string `gorm:"column:cusip"`
	Fraction    int64  `gorm:"column:fraction"`
	QuoteFlag   int    `gorm:"column:quote_flag"`
	QuoteSource string `gorm:"column:quote_source"`
	QuoteTZ     string `gorm:"column:quote_tz"`
}

// TableName implements the gorm table naming interface.
func (Commodity) TableName() string { return "commodities" }

// Account is a row of the accounts table. Accounts form a tree via
// ParentGUID; the root account has a nil parent.
type Account struct {
	GUID          string  `gorm:"column:guid;primaryKey"`
	Name          string  `gorm:"column:name"`
	AccountType   string  `gorm:"column:account_type"`
	CommodityGUID string  `gorm:"column:commodity_guid"`
	CommoditySCU  int64   `gorm:"column:commodity_scu"`
	NonStdSCU     int     `gorm:"column:non_std_scu"`
	ParentGUID    *string `gorm:"column:parent_guid"`
	Code          string  `gorm:"column:code"`
	Description   string  `gorm:"column:description"`
	Hidden        int     `gorm:"column:hidden"`
	Placeholder   int     `gorm:"column:placeholder"`
}

// TableName implements the gorm table naming interface.
func (Account) TableName() string { return "accounts" }

// IsRoot reports whether the account is a tree root.
func (a *Account) IsRoot() bool {
	return a.AccountType == AccountTypeRoot || a.ParentGUID == nil
}

// signFlipped lists the account types whose balances GnuCash displays with
// the natural accounting sign flipped.
var signFlipped = map[string]bool{
	AccountTypeIncome:    true,
	AccountTypeLiability: true,
	AccountTypeEquity:    true,
	AccountTypePayable:   true,
	AccountTypeCredit:    true,
}

// Sign returns +1 or -1 depending on the natural display sign of the
// account's type.
func (a *Account) Sign() int64 {
	if signFlipped[a.AccountType] {
		return -1
	}
	return 1
}

// Transaction is a row of the transactions table together with its splits.
type Transaction struct {
	GUID         string  `gorm:"column:guid;primaryKey"`
	CurrencyGUID string  `gorm:"column:currency_guid"`
	Num          string  `gorm:"column:num"`
	PostDate     string  `gorm:"column:post_date"`
	EnterDate    string  `gorm:"column:enter_date"`
	Description  string  `gorm:"column:description"`
	Splits       []Split `gorm:"foreignKey:TxGUID;references:GUID"`
}

// TableName implements the gorm table naming interface.
func (Transaction) TableName() string { return "transactions" }

// Split is a row of the splits table: one leg of a transaction, carrying a
// signed exact value as a num/denom fraction.
type Split struct {
	GUID           string  `gorm:"column:guid;primaryKey"`
	TxGUID         string  `gorm:"column:tx_guid"`
	AccountGUID    string  `gorm:"column:account_guid"`
	Memo           string  `gorm:"column:memo"`
	Action         string  `gorm:"column:action"`
	ReconcileState string  `gorm:"column:reconcile_state"`
	ReconcileDate  *string `gorm:"column:reconcile_date"`
	ValueNum       int64   `gorm:"column:value_num"`
	ValueDenom     int64   `gorm:"column:value_denom"`
	QuantityNum    int64   `gorm:"column:quantity_num"`
	QuantityDenom  int64   `gorm:"column:quantity_denom"`
	LotGUID        *string `gorm:"column:lot_guid"`
}

// TableName implements the gorm table naming interface.
func (Split) TableName() string { return "splits" }

// Version is a row of the versions table GnuCash uses to track schema
// revisions.
type Version struct {
	TableName_   string `gorm:"column:table_name;primaryKey"`
	TableVersion int    `gorm:"column:table_version"`
}

// TableName implements the gorm table naming interface.
func (Version) TableName() string { return "versions" }

// Lock is a row of the gnclock table. GnuCash records the holder of an open
// read-write book here; a populated table means the book is in use.
type Lock struct {
	Hostname string `gorm:"column:Hostname"`
	PID      int    `gorm:"column:PID"`
}

// TableName implements the gorm table naming interface.
func (Lock) TableName() string { return "gnclock" }

// NewGUID returns a fresh GnuCash object identifier: a UUID rendered as 32
// hex characters without separators, the format GnuCash stores in guid
// columns.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
