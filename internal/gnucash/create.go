package gnucash

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CreateBook creates an empty GnuCash book at path: the SQLite schema, the
// root account and the USD currency. Used for initial setup and test
// fixtures; production books normally come from GnuCash itself.
func CreateBook(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrBookExists, path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("create book %s: %w", path, err)
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
	}()

	if err := db.AutoMigrate(&Version{}, &Commodity{}, &Account{}, &Transaction{}, &Split{}, &Lock{}); err != nil {
		return fmt.Errorf("create book schema: %w", err)
	}

	versions := []Version{
		{TableName_: "commodities", TableVersion: 1},
		{TableName_: "accounts", TableVersion: 1},
		{TableName_: "transactions", TableVersion: 4},
		{TableName_: "splits", TableVersion: 5},
	}
	if err := db.Create(&versions).Error; err != nil {
		return fmt.Errorf("seed versions: %w", err)
	}

	usd := Commodity{
		GUID:      NewGUID(),
		Namespace: CurrencyNamespace,
		Mnemonic:  "USD",
		Fullname:  "US Dollar",
		CUSIP:     "840",
		Fraction:  100,
		QuoteFlag: 1,
	}
	if err := db.Create(&usd).Error; err != nil {
		return fmt.Errorf("seed USD commodity: %w", err)
	}

	root := Account{
		GUID:         NewGUID(),
		Name:         RootAccountName,
		AccountType:  AccountTypeRoot,
		CommoditySCU: usd.Fraction,
	}
	if err := db.Create(&root).Error; err != nil {
		return fmt.Errorf("seed root account: %w", err)
	}

	return nil
}
