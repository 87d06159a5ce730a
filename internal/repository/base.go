// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds a single repository call when no option overrides it.
const DefaultQueryTimeout = 5 * time.Second

// Option customizes a repository.
type Option func(*base)

// WithQueryTimeout bounds every database call made by the repository.
func WithQueryTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{db: db, timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// session returns a gorm handle bound to ctx with the repository timeout applied.
func (b base) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}

const pgUniqueViolation = "23505"

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite reports "UNIQUE constraint failed: table.column".
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
