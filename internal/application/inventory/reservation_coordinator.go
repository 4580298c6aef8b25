package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dokanify/backend/internal/domain/catalog"
	domaininventory "github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/order"
	"github.com/dokanify/backend/internal/domain/shared"
)

// InsufficientStockError reports the first order line that stock could not
// cover. No stock is mutated when it is returned.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// ReservationCoordinator reserves stock when an order is placed and restores
// it when the order is cancelled. Each call runs inside one transaction so a
// failure on any line rolls back the whole reservation.
type ReservationCoordinator struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReservationCoordinator creates a reservation coordinator
func NewReservationCoordinator(scope TransactionScope, logger *zap.Logger) *ReservationCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationCoordinator{scope: scope, logger: logger}
}

// Reserve decrements stock for every line of the order. All lines are
// validated against a single batch read before any mutation; if any line
// falls short, the call fails with *InsufficientStockError and nothing is
// written. An order that already holds a reservation is rejected.
func (c *ReservationCoordinator) Reserve(ctx context.Context, orderID uuid.UUID) error {
	return c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.StockReserved {
			return shared.NewDomainError("ALREADY_RESERVED", "Stock is already reserved for this order")
		}
		if len(o.Items) == 0 {
			return shared.NewDomainError("EMPTY_ORDER", "Order has no items to reserve")
		}

		products, err := c.loadProducts(ctx, repos, o)
		if err != nil {
			return err
		}

		// Validate every line before touching any stock
		for _, item := range o.Items {
			product := products[item.ProductID]
			if !product.CanFulfill(item.Quantity) {
				return &InsufficientStockError{
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
		}

		ledger := domaininventory.NewStockLedger(repos.Products(), repos.StockLogs(), c.logger)
		for _, item := range o.Items {
			_, err := ledger.ApplyDelta(ctx, domaininventory.ApplyDeltaInput{
				ProductID:          item.ProductID,
				Quantity:           item.Quantity,
				Operation:          domaininventory.OperationDecrement,
				Reason:             domaininventory.FormatReserveReason(orderID),
				OrderID:            &o.ID,
				FailOnInsufficient: true,
			})
			if err != nil {
				return err
			}
		}

		if err := o.MarkReserved(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		c.logger.Info("stock reserved",
			zap.String("order_id", orderID.String()),
			zap.Int("lines", len(o.Items)),
		)
		return nil
	})
}

// Release restores stock for every line of the order. It is idempotent: an
// order without a live reservation is a no-op, never a double credit.
func (c *ReservationCoordinator) Release(ctx context.Context, orderID uuid.UUID) error {
	return c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.MarkReleased() {
			c.logger.Debug("release skipped, no live reservation",
				zap.String("order_id", orderID.String()),
			)
			return nil
		}

		ledger := domaininventory.NewStockLedger(repos.Products(), repos.StockLogs(), c.logger)
		for _, item := range o.Items {
			_, err := ledger.ApplyDelta(ctx, domaininventory.ApplyDeltaInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Operation: domaininventory.OperationIncrement,
				Reason:    domaininventory.FormatRestoreReason(orderID),
				OrderID:   &o.ID,
			})
			if err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		c.logger.Info("stock restored",
			zap.String("order_id", orderID.String()),
			zap.Int("lines", len(o.Items)),
		)
		return nil
	})
}

func (c *ReservationCoordinator) loadProducts(ctx context.Context, repos TransactionalRepositories, o *order.Order) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, item := range o.Items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, domaininventory.ErrProductNotFound
		}
	}
	return byID, nil
}
