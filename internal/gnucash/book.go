package gnucash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrBookNotFound is returned when the book file does not exist.
	ErrBookNotFound = errors.New("book file not found")
	// ErrBookLocked is returned when another process holds the book lock.
	ErrBookLocked = errors.New("book is locked by another process")
	// ErrReadOnly is returned by mutating operations on a read-only book.
	ErrReadOnly = errors.New("book is open read-only")
	// ErrCommodityNotFound is returned when a currency lookup fails.
	ErrCommodityNotFound = errors.New("commodity not found")
	// ErrBookExists is returned by CreateBook when the target already exists.
	ErrBookExists = errors.New("book file already exists")
)

// Options controls how a book is opened.
type Options struct {
	// ReadOnly opens the book without taking the gnclock entry; mutating
	// operations are rejected.
	ReadOnly bool
	// IgnoreLock opens the book even when another holder is recorded in
	// gnclock.
	IgnoreLock bool
	// Backup copies the book file aside before a read-write open.
	Backup bool
}

// Book is an open GnuCash book. It owns the underlying database handle;
// callers must Close it on every exit path to release the book lock.
type Book struct {
	db       *gorm.DB
	path     string
	readOnly bool
	locked   bool
}

// Open opens the GnuCash book at path. A read-write open records this
// process in the gnclock table, which Close removes again. An existing lock
// entry fails the open unless opts.IgnoreLock is set.
func Open(path string, opts Options) (*Book, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, path)
	}

	if opts.Backup && !opts.ReadOnly {
		if err := backupFile(path); err != nil {
			return nil, fmt.Errorf("backup before open: %w", err)
		}
	}

	dsn := path
	if opts.ReadOnly {
		dsn = "file:" + path + "?mode=ro"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open book %s: %w", path, err)
	}

	b := &Book{db: db, path: path, readOnly: opts.ReadOnly}

	var locks []Lock
	if err := db.Find(&locks).Error; err != nil {
		b.closeDB()
		return nil, fmt.Errorf("book %s has no lock table, not a GnuCash book: %w", path, err)
	}
	if len(locks) > 0 && !opts.IgnoreLock {
		b.closeDB()
		return nil, fmt.Errorf("%w: held by %s (pid %d)", ErrBookLocked, locks[0].Hostname, locks[0].PID)
	}

	if !opts.ReadOnly {
		hostname, _ := os.Hostname()
		if err := db.Create(&Lock{Hostname: hostname, PID: os.Getpid()}).Error; err != nil {
			b.closeDB()
			return nil, fmt.Errorf("take book lock: %w", err)
		}
		b.locked = true
	}

	return b, nil
}

// Close releases the book lock (when held) and the database handle.
func (b *Book) Close() error {
	if b.locked {
		hostname, _ := os.Hostname()
		if err := b.db.Where("Hostname = ? AND PID = ?", hostname, os.Getpid()).Delete(&Lock{}).Error; err != nil {
			b.closeDB()
			return fmt.Errorf("release book lock: %w", err)
		}
		b.locked = false
	}
	return b.closeDB()
}

func (b *Book) closeDB() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Path returns the book file path.
func (b *Book) Path() string { return b.path }

// Accounts returns every account row in the book, roots included.
func (b *Book) Accounts() ([]Account, error) {
	var accounts []Account
	if err := b.db.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	return accounts, nil
}

// Splits returns every split row in the book.
func (b *Book) Splits() ([]Split, error) {
	var splits []Split
	if err := b.db.Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("load splits: %w", err)
	}
	return splits, nil
}

// LastTransactions returns the last n transactions in book (insertion) order,
// most recent first, with splits attached. Fewer are returned when the book
// holds fewer.
func (b *Book) LastTransactions(n int) ([]Transaction, error) {
	var txns []Transaction
	err := b.db.Preload("Splits").Order("rowid DESC").Limit(n).Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txns, nil
}

// CountTransactions returns the number of transactions in the book.
func (b *Book) CountTransactions() (int64, error) {
	var count int64
	if err := b.db.Model(&Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

// Currency looks up a currency commodity by mnemonic, e.g. "USD".
func (b *Book) Currency(mnemonic string) (*Commodity, error) {
	var c Commodity
	err := b.db.Where("namespace = ? AND mnemonic = ?", CurrencyNamespace, mnemonic).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCommodityNotFound, mnemonic)
	}
	if err != nil {
		return nil, fmt.Errorf("load commodity %s: %w", mnemonic, err)
	}
	return &c, nil
}

// SaveTransaction appends a transaction and its splits to the book.
func (b *Book) SaveTransaction(txn *Transaction) error {
	if b.readOnly {
		return ErrReadOnly
	}
	for i := range txn.Splits {
		txn.Splits[i].TxGUID = txn.GUID
	}
	if err := b.db.Create(txn).Error; err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

// SaveAccount appends a new account to the book.
func (b *Book) SaveAccount(a *Account) error {
	if b.readOnly {
		return ErrReadOnly
	}
	if err := b.db.Create(a).Error; err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// backupFile copies the book aside before a mutating open, the same habit
// GnuCash itself has.
func backupFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	backup := fmt.Sprintf("%s.%s.gnucash", path, time.Now().Format("20060102150405"))
	dst, err := os.Create(backup)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
