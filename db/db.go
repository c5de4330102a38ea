// Package db provides the database connection, models, and migrations.
package db

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/jinzhu/gorm"
)

var (
	dbMaxOpenConns = 1
	dbOptions      = url.Values{
		// with this, multiple connections share a single data and schema cache.
		// see https://www.sqlite.org/sharedcache.html
		"cache": {"shared"},
		// with this, the db sleeps for a little while when locked. can prevent
		// a SQLITE_BUSY. see https://www.sqlite.org/c3ref/busy_timeout.html
		"_busy_timeout": {"30000"},
		"_journal_mode": {"WAL"},
		"_foreign_keys": {"true"},
	}
)

type DB struct {
	*gorm.DB
}

func New(path string) (*DB, error) {
	pathAndArgs := fmt.Sprintf("%s?%s", path, dbOptions.Encode())
	db, err := gorm.Open("sqlite3", pathAndArgs)
	if err != nil {
		return nil, fmt.Errorf("with gorm: %w", err)
	}
	db.SetLogger(log.New(os.Stdout, "gorm ", 0))
	db.DB().SetMaxOpenConns(dbMaxOpenConns)
	return &DB{DB: db}, nil
}

func NewMock() (*DB, error) {
	return New(":memory:")
}

type SettingKey string

const (
	LastImportTime SettingKey = "last_import_time"
)

func (db *DB) GetSetting(key SettingKey) (string, error) {
	var setting Setting
	err := db.
		Where("key=?", key).
		First(&setting).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (db *DB) SetSetting(key SettingKey, value string) error {
	return db.
		Where(Setting{Key: string(key)}).
		Assign(Setting{Value: value}).
		FirstOrCreate(&Setting{}).
		Error
}

func (db *DB) WithTx(cb func(tx *gorm.DB)) {
	tx := db.Begin()
	defer tx.Commit()
	cb(tx)
}

// InTx runs cb inside a transaction. The transaction is rolled back if
// cb returns an error, otherwise committed.
func (db *DB) InTx(cb func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	if err := cb(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type ChunkFunc func(*gorm.DB, []int64) error

func (db *DB) WithTxChunked(data []int64, cb ChunkFunc) error {
	// https://sqlite.org/limits.html
	const size = 999
	tx := db.Begin()
	defer tx.Commit()
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		if err := cb(tx, data[i:end]); err != nil {
			return err
		}
	}
	return nil
}
