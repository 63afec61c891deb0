package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ceopag/eloquence-base/pkg/logger"
)

// Transaction, sql.Tx sarmalayıcısı. İçinde oluşturulan builder'lar aynı
// transaction üzerinde çalışır.
type Transaction struct {
	Tx      *sql.Tx
	grammar Grammar
}

// BeginTransaction, yeni bir transaction başlatır. Dönen Transaction mutlaka
// Commit veya Rollback ile sonlandırılmalıdır.
func BeginTransaction(ctx context.Context, db *sql.DB, grammar Grammar) (*Transaction, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug().Msg("transaction started")
	return &Transaction{Tx: tx, grammar: grammar}, nil
}

// NewBuilder, transaction'a bağlı yeni bir QueryBuilder oluşturur.
func (t *Transaction) NewBuilder() *QueryBuilder {
	return NewBuilder(t.Tx, t.grammar)
}

// Exec, ham SQL komutunu transaction içinde çalıştırır.
func (t *Transaction) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := t.Tx.ExecContext(ctx, query, args...)
	return err
}

func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err == nil {
		logger.Debug().Msg("transaction committed")
	}
	return err
}

func (t *Transaction) Rollback() error {
	err := t.Tx.Rollback()
	if err == nil {
		logger.Debug().Msg("transaction rolled back")
	}
	return err
}

// WithTransaction, fn'i transaction içinde çalıştırır. fn hata dönerse
// rollback, aksi halde commit yapılır.
//
//	err := database.WithTransaction(ctx, db, grammar, func(tx *database.Transaction) error {
//	    return tx.Exec(ctx, "INSERT INTO venues (id, name) VALUES (?, ?)", 1, "Arena")
//	})
func WithTransaction(ctx context.Context, db *sql.DB, grammar Grammar, fn func(tx *Transaction) error) error {
	tx, err := BeginTransaction(ctx, db, grammar)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
