package sqlite

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"tgdrive/internal/domain/repositories"
)

// txContextKey is the type for transaction context keys
type txContextKey string

// txKey is the context key for storing transactions
const txKey txContextKey = "gorm_tx"

// SetTx stores a transaction in the context
func SetTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTx retrieves a transaction from the context
// Returns nil if no transaction is present
func GetTx(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok {
		return nil
	}
	return tx
}

// GetExecutor returns the transaction from ctx when there is one, the plain handle otherwise.
// Everything inside ExecTx must go through here: with one pooled connection, a query
// on the plain handle would wait for the transaction that holds it.
func GetExecutor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := GetTx(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(config *RepositoryConfig) repositories.TransactionManager {
	return &TransactionManager{db: config.DB, logger: config.Logger}
}

// ExecTx executes a function within a transaction.
// Nested calls reuse the transaction already stored in ctx.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if GetTx(ctx) != nil {
		return fn(ctx)
	}

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(SetTx(ctx, tx))
	})
}
