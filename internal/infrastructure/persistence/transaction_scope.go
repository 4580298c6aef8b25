package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/dokanify/backend/internal/application/inventory"
	"github.com/dokanify/backend/internal/domain/catalog"
	"github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/order"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to the unit of work are bound to one transaction, so a
// returned error rolls back every write made through them.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StockLogs returns the stock log repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockLogs() inventory.StockLogRepository {
	return NewGormStockLogRepository(r.tx)
}

// Orders returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
