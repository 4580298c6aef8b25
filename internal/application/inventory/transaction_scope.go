package inventory

import (
	"context"

	"github.com/dokanify/backend/internal/domain/catalog"
	"github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/order"
)

// TransactionalRepositories exposes the repositories bound to one transaction.
// Everything obtained from it shares a commit/rollback fate.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	StockLogs() inventory.StockLogRepository
	Orders() order.Repository
}

// TransactionScope runs a unit of work inside one database transaction.
// The function receives transaction-bound repositories; returning an error
// rolls every write back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope passes the ambient repositories through without any
// transaction boundary. Used in tests where atomicity is asserted separately.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a transaction scope without transactions
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn against the ambient repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

// StaticRepositories is a plain TransactionalRepositories over fixed
// repository instances
type StaticRepositories struct {
	ProductRepo  catalog.ProductRepository
	StockLogRepo inventory.StockLogRepository
	OrderRepo    order.Repository
}

// Products returns the product repository
func (r *StaticRepositories) Products() catalog.ProductRepository { return r.ProductRepo }

// StockLogs returns the stock log repository
func (r *StaticRepositories) StockLogs() inventory.StockLogRepository { return r.StockLogRepo }

// Orders returns the order repository
func (r *StaticRepositories) Orders() order.Repository { return r.OrderRepo }
