package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domaininventory "github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/shared"
)

// AdjustInput describes an administrative stock correction
type AdjustInput struct {
	ProductID uuid.UUID
	Quantity  int
	Operation domaininventory.StockOperation
	Reason    string
	UserID    *uuid.UUID
}

// StockService exposes administrative stock operations: manual corrections
// and the audit history. Unlike order reservations, corrections clamp at
// zero instead of failing on insufficient stock.
type StockService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewStockService creates a stock service
func NewStockService(scope TransactionScope, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{scope: scope, logger: logger}
}

// Adjust applies a manual stock correction inside one transaction
func (s *StockService) Adjust(ctx context.Context, in AdjustInput) (*domaininventory.DeltaResult, error) {
	var result *domaininventory.DeltaResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := domaininventory.NewStockLedger(repos.Products(), repos.StockLogs(), s.logger)
		var err error
		result, err = ledger.ApplyDelta(ctx, domaininventory.ApplyDeltaInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Operation: in.Operation,
			Reason:    in.Reason,
			UserID:    in.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History returns a product's stock audit trail, newest first
func (s *StockService) History(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]domaininventory.StockLogEntry, error) {
	var entries []domaininventory.StockLogEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Ensure the product exists so a typo'd id reads as 404, not an
		// empty history
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			return err
		}
		var err error
		entries, err = repos.StockLogs().FindByProduct(ctx, productID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
