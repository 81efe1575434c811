package gnucash

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gnucash")
	require.NoError(t, CreateBook(path))
	return path
}

func TestCreateBook(t *testing.T) {
	path := newTestBook(t)

	book, err := Open(path, Options{ReadOnly: true})
	require.NoError(t, err)
	defer book.Close()

	usd, err := book.Currency("USD")
	require.NoError(t, err)
	assert.Equal(t, int64(100), usd.Fraction)

	accounts, err := book.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, AccountTypeRoot, accounts[0].AccountType)

	// creating over an existing book must fail
	assert.ErrorIs(t, CreateBook(path), ErrBookExists)
}

func TestOpenMissingBook(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gnucash"), Options{})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestOpenLockContention(t *testing.T) {
	path := newTestBook(t)

	first, err := Open(path, Options{})
	require.NoError(t, err)

	_, err = Open(path, Options{})
	assert.ErrorIs(t, err, ErrBookLocked)

	// IgnoreLock opens anyway
	second, err := Open(path, Options{ReadOnly: true, IgnoreLock: true})
	require.NoError(t, err)
	require.NoError(t, second.Close())

	// releasing the lock makes the book openable again
	require.NoError(t, first.Close())
	third, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, third.Close())
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	path := newTestBook(t)

	book, err := Open(path, Options{ReadOnly: true})
	require.NoError(t, err)
	defer book.Close()

	err = book.SaveTransaction(&Transaction{GUID: NewGUID()})
	assert.ErrorIs(t, err, ErrReadOnly)
	err = book.SaveAccount(&Account{GUID: NewGUID(), Name: "X"})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestSaveAndReadTransactions(t *testing.T) {
	path := newTestBook(t)

	book, err := Open(path, Options{})
	require.NoError(t, err)
	defer book.Close()

	accounts, err := book.Accounts()
	require.NoError(t, err)
	root := accounts[0]
	usd, err := book.Currency("USD")
	require.NoError(t, err)

	cash := Account{
		GUID: NewGUID(), Name: "Cash", AccountType: AccountTypeCash,
		CommodityGUID: usd.GUID, CommoditySCU: usd.Fraction, ParentGUID: &root.GUID,
	}
	food := Account{
		GUID: NewGUID(), Name: "Food", AccountType: AccountTypeExpense,
		CommodityGUID: usd.GUID, CommoditySCU: usd.Fraction, ParentGUID: &root.GUID,
	}
	require.NoError(t, book.SaveAccount(&cash))
	require.NoError(t, book.SaveAccount(&food))

	txn := Transaction{
		GUID:         NewGUID(),
		CurrencyGUID: usd.GUID,
		PostDate:     "2021-06-01 12:00:00",
		EnterDate:    "2021-06-01 12:00:00",
		Description:  "Lunch",
		Splits: []Split{
			{GUID: NewGUID(), AccountGUID: food.GUID, ReconcileState: "n", ValueNum: 1250, ValueDenom: 100, QuantityNum: 1250, QuantityDenom: 100},
			{GUID: NewGUID(), AccountGUID: cash.GUID, ReconcileState: "n", ValueNum: -1250, ValueDenom: 100, QuantityNum: -1250, QuantityDenom: 100},
		},
	}
	require.NoError(t, book.SaveTransaction(&txn))

	count, err := book.CountTransactions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	txns, err := book.LastTransactions(10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Lunch", txns[0].Description)
	require.Len(t, txns[0].Splits, 2)
	assert.Equal(t, txn.GUID, txns[0].Splits[0].TxGUID)
}

func TestLastTransactionsOrder(t *testing.T) {
	path := newTestBook(t)

	book, err := Open(path, Options{})
	require.NoError(t, err)
	defer book.Close()

	usd, err := book.Currency("USD")
	require.NoError(t, err)

	for _, desc := range []string{"first", "second", "third"} {
		require.NoError(t, book.SaveTransaction(&Transaction{
			GUID: NewGUID(), CurrencyGUID: usd.GUID, Description: desc,
			PostDate: "2021-06-01 12:00:00", EnterDate: "2021-06-01 12:00:00",
		}))
	}

	txns, err := book.LastTransactions(2)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "third", txns[0].Description)
	assert.Equal(t, "second", txns[1].Description)
}

func TestOpenWithBackup(t *testing.T) {
	path := newTestBook(t)

	book, err := Open(path, Options{Backup: true})
	require.NoError(t, err)
	require.NoError(t, book.Close())

	backups, err := filepath.Glob(path + ".*.gnucash")
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
