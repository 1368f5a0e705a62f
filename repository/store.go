// Package repository is the persistence gateway: typed reads and writes over
// gorm with per-call timeouts and an explicit transaction scope. It holds no
// business rules.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrConflict is returned when a guarded write affected no rows because the
// row changed underneath it.
var ErrConflict = errors.New("concurrent modification")

// ErrNotFound aliases gorm's sentinel so callers need not import gorm
var ErrNotFound = gorm.ErrRecordNotFound

const defaultTimeout = 5 * time.Second

// Store wraps a gorm handle. Inside Transaction it wraps the transaction.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
	inTx    bool
}

// New creates a store. A zero timeout falls back to five seconds.
func New(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one database transaction bounded by the store
// timeout. The transaction commits when fn returns nil and rolls back when
// it returns an error or panics.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, timeout: s.timeout, inTx: true})
	})
}

// session returns a handle bound to a bounded context. Inside a transaction
// the transaction's own context already applies.
func (s *Store) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.inTx {
		return s.db, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// AutoMigrate creates or updates the tables for the given models
func (s *Store) AutoMigrate(ctx context.Context, models ...interface{}) error {
	db, cancel := s.session(ctx)
	defer cancel()
	return db.AutoMigrate(models...)
}

// IsUniqueViolation reports whether err came from a unique constraint
// (works with both PostgreSQL and SQLite)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// IsNotFound reports whether err is a missing-row error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
