package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dokanify/backend/internal/domain/catalog"
	"github.com/dokanify/backend/internal/domain/shared"
)

// ErrProductNotFound signals that a referenced product does not exist
var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")

// ApplyDeltaInput describes one stock mutation
type ApplyDeltaInput struct {
	ProductID uuid.UUID
	// Quantity is always non-negative; Operation carries the direction
	Quantity  int
	Operation StockOperation
	Reason    string
	OrderID   *uuid.UUID
	UserID    *uuid.UUID
	// FailOnInsufficient makes a decrement fail instead of clamping at zero.
	// Order-driven reservations set it; administrative corrections leave it
	// off and clamp.
	FailOnInsufficient bool
}

// DeltaResult reports the balances around a stock mutation
type DeltaResult struct {
	ProductID     uuid.UUID
	PreviousStock int
	NewStock      int
}

// AvailabilityLine is one requested product/quantity pair
type AvailabilityLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// ItemAvailability reports availability for a single line
type ItemAvailability struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
	Sufficient  bool
}

// AvailabilityReport is the pre-flight view over a set of lines
type AvailabilityReport struct {
	AllAvailable bool
	Items        []ItemAvailability
}

// StockLedger applies validated stock changes to products and records each
// mutation in the append-only stock log. Every stock mutation in the system
// goes through here; nothing writes Product.Stock directly, so the audit
// trail stays complete. It performs no I/O beyond the repositories it is
// given, which makes it safe to rebind onto transaction-scoped repositories.
type StockLedger struct {
	products catalog.ProductRepository
	logs     StockLogRepository
	logger   *zap.Logger
}

// NewStockLedger creates a stock ledger over the given repositories
func NewStockLedger(products catalog.ProductRepository, logs StockLogRepository, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{
		products: products,
		logs:     logs,
		logger:   logger,
	}
}

// ApplyDelta applies a single validated stock change to one product and
// records it. A failure writing the audit entry is downgraded to a warning:
// losing a log line must not roll back the sale it documents.
func (l *StockLedger) ApplyDelta(ctx context.Context, in ApplyDeltaInput) (*DeltaResult, error) {
	if err := l.validateInput(in); err != nil {
		return nil, err
	}

	product, err := l.products.FindByID(ctx, in.ProductID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	previous := product.Stock

	switch in.Operation {
	case OperationIncrement:
		err = product.IncreaseStock(in.Quantity)
	case OperationDecrement:
		if in.FailOnInsufficient {
			err = product.DecreaseStock(in.Quantity)
		} else {
			err = product.DecreaseStockClamped(in.Quantity)
		}
	case OperationSet:
		product.SetStock(in.Quantity)
	}
	if err != nil {
		return nil, err
	}

	if err := l.products.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	l.writeLog(ctx, product, previous, in)

	return &DeltaResult{
		ProductID:     product.ID,
		PreviousStock: previous,
		NewStock:      product.Stock,
	}, nil
}

// CheckAvailability is the read-only pre-flight over a set of lines; it
// never mutates stock.
func (l *StockLedger) CheckAvailability(ctx context.Context, lines []AvailabilityLine) (*AvailabilityReport, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_LINES", "At least one line is required")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		ids = append(ids, line.ProductID)
	}

	products, err := l.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	report := &AvailabilityReport{AllAvailable: true, Items: make([]ItemAvailability, 0, len(lines))}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		sufficient := product.CanFulfill(line.Quantity)
		if !sufficient {
			report.AllAvailable = false
		}
		report.Items = append(report.Items, ItemAvailability{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   line.Quantity,
			Available:   product.Stock,
			Sufficient:  sufficient,
		})
	}
	return report, nil
}

// History returns a product's audit trail, newest first
func (l *StockLedger) History(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLogEntry, error) {
	return l.logs.FindByProduct(ctx, productID, filter)
}

func (l *StockLedger) validateInput(in ApplyDeltaInput) error {
	if in.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !in.Operation.IsValid() {
		return shared.NewDomainError("INVALID_OPERATION", "Invalid stock operation")
	}
	if in.Reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Stock mutation reason is required")
	}
	if in.Operation == OperationSet {
		// Any quantity is accepted; SetStock floors negatives at zero
		return nil
	}
	if in.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func (l *StockLedger) writeLog(ctx context.Context, product *catalog.Product, previous int, in ApplyDeltaInput) {
	entry, err := NewStockLogEntry(product.ID, previous, product.Stock, in.Operation, in.Reason)
	if err == nil {
		if in.OrderID != nil {
			entry.WithOrderID(*in.OrderID)
		}
		if in.UserID != nil {
			entry.WithUserID(*in.UserID)
		}
		err = l.logs.Create(ctx, entry)
	}
	if err != nil {
		l.logger.Warn("stock log write failed, mutation kept",
			zap.String("product_id", product.ID.String()),
			zap.String("operation", in.Operation.String()),
			zap.Int("previous_stock", previous),
			zap.Int("new_stock", product.Stock),
			zap.Error(err),
		)
	}
}

// FormatReserveReason builds the audit reason for an order reservation
func FormatReserveReason(orderID uuid.UUID) string {
	return fmt.Sprintf("Stock reserved for order %s", orderID)
}

// FormatRestoreReason builds the audit reason for a cancelled-order restock
func FormatRestoreReason(orderID uuid.UUID) string {
	return fmt.Sprintf("Stock restored from cancelled order %s", orderID)
}
