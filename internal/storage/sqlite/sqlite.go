// Package sqlitestorage keeps the lists in a SQLite table through GORM.
// An empty path opens a private in-memory database.
package sqlitestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string
}

// Entry is one stored list.
type Entry struct {
	Name      string `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// Backend stores lists as JSON values keyed by name.
type Backend struct {
	cfg Config
	db  *gorm.DB
}

func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init opens the database and migrates the schema.
func (b *Backend) Init() error {
	dsn := ":memory:"
	if b.cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(b.cfg.Path), 0o755); err != nil {
			return fmt.Errorf("sqlite storage: %w", err)
		}
		dsn = b.cfg.Path
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("sqlite storage: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sqlite storage: %w", err)
	}
	// one connection so an in-memory database is shared by every query
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return fmt.Errorf("sqlite storage: error setting PRAGMA: %w", err)
		}
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		sqlDB.Close()
		return fmt.Errorf("sqlite storage: migrate: %w", err)
	}
	b.db = db
	return nil
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	b.db = nil
	return sqlDB.Close()
}

var errNotOpen = errors.New("sqlite storage: not initialized")

func (b *Backend) Load(ctx context.Context, key string) ([]string, bool, error) {
	if b.db == nil {
		return nil, false, errNotOpen
	}
	var e Entry
	err := b.db.WithContext(ctx).Where("name = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite storage: load %s: %w", key, err)
	}
	var values []string
	if err := json.Unmarshal(e.Value, &values); err != nil {
		return nil, false, fmt.Errorf("sqlite storage: decode %s: %w", key, err)
	}
	return values, true, nil
}

func (b *Backend) Save(ctx context.Context, key string, values []string) error {
	if b.db == nil {
		return errNotOpen
	}
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	e := Entry{Name: key, Value: datatypes.JSON(raw)}
	err = b.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("sqlite storage: save %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if b.db == nil {
		return errNotOpen
	}
	if err := b.db.WithContext(ctx).Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("sqlite storage: delete %s: %w", key, err)
	}
	return nil
}
