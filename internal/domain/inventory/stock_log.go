package inventory

import (
	"github.com/google/uuid"

	"github.com/dokanify/backend/internal/domain/shared"
)

// StockOperation represents the kind of stock mutation
type StockOperation string

const (
	// OperationIncrement adds stock (restock, cancelled-order restoration)
	OperationIncrement StockOperation = "increment"
	// OperationDecrement removes stock (reservation, manual correction)
	OperationDecrement StockOperation = "decrement"
	// OperationSet overwrites the stock level (stock counting)
	OperationSet StockOperation = "set"
)

// String returns the string representation of StockOperation
func (o StockOperation) String() string {
	return string(o)
}

// IsValid returns true if the operation is valid
func (o StockOperation) IsValid() bool {
	switch o {
	case OperationIncrement, OperationDecrement, OperationSet:
		return true
	}
	return false
}

// StockLogEntry is an immutable audit record of one stock mutation.
// Entries are created once, never updated or deleted; per product they form
// an append-only ledger. Invariant: PreviousStock + ChangeAmount == NewStock.
type StockLogEntry struct {
	shared.BaseEntity
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_stock_log_product_time,priority:1"`
	PreviousStock int            `gorm:"not null"`
	NewStock      int            `gorm:"not null"`
	// ChangeAmount is signed: negative for decrements
	ChangeAmount int            `gorm:"not null"`
	Operation    StockOperation `gorm:"type:varchar(20);not null"`
	// Reason must reference the triggering order or actor
	Reason  string     `gorm:"type:varchar(255);not null"`
	OrderID *uuid.UUID `gorm:"type:uuid;index"`
	UserID  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockLogEntry) TableName() string {
	return "stock_logs"
}

// NewStockLogEntry creates an audit record for a stock mutation
func NewStockLogEntry(
	productID uuid.UUID,
	previousStock, newStock int,
	operation StockOperation,
	reason string,
) (*StockLogEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !operation.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Invalid stock operation")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Stock mutation reason is required")
	}
	if previousStock < 0 || newStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock balances cannot be negative")
	}

	return &StockLogEntry{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		PreviousStock: previousStock,
		NewStock:      newStock,
		ChangeAmount:  newStock - previousStock,
		Operation:     operation,
		Reason:        reason,
	}, nil
}

// WithOrderID attributes the entry to an order
func (e *StockLogEntry) WithOrderID(orderID uuid.UUID) *StockLogEntry {
	e.OrderID = &orderID
	return e
}

// WithUserID attributes the entry to an acting user
func (e *StockLogEntry) WithUserID(userID uuid.UUID) *StockLogEntry {
	e.UserID = &userID
	return e
}
