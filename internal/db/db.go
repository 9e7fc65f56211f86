package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns          = 25
	maxIdleConns          = 5
	connMaxLifetime       = 5 * time.Minute
	defaultConnectTimeout = 5 * time.Second
	busyTimeoutMillis     = 5000
)

// Options controls how the catalog database is opened
type Options struct {
	// ConnectTimeout bounds the initial ping
	ConnectTimeout time.Duration
	// EnableWAL switches SQLite to write-ahead logging
	EnableWAL bool
}

// DB wraps a GORM database connection
type DB struct {
	*gorm.DB
}

// New opens the catalog database at dbPath with WAL enabled
// Example: "./data/marquee.db"
func New(dbPath string) (*DB, error) {
	return Open(dbPath, Options{ConnectTimeout: defaultConnectTimeout, EnableWAL: true})
}

// Open opens the catalog database at dbPath. Foreign keys are always enforced
// because playlist and membership cleanup relies on them.
//
// Transactions take the write lock when they begin and wait up to the busy
// timeout for it, so concurrent writers queue instead of failing with
// SQLITE_BUSY when the slug check upgrades to an insert.
func Open(dbPath string, opts Options) (*DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_txlock=immediate&_busy_timeout=%d", dbPath, busyTimeoutMillis)
	if opts.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// Writes that need atomicity open their own transaction
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: gormDB}, nil
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// GetSQLDB returns the underlying sql.DB for migrations
func (db *DB) GetSQLDB() (*sql.DB, error) {
	return db.DB.DB()
}
