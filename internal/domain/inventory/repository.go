package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dokanify/backend/internal/domain/shared"
)

// StockLogRepository defines the interface for the append-only stock ledger.
// Entries are never updated or deleted.
type StockLogRepository interface {
	// Create appends a new log entry
	Create(ctx context.Context, entry *StockLogEntry) error

	// FindByProduct returns a product's log entries, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLogEntry, error)

	// FindByOrder returns the log entries attributed to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]StockLogEntry, error)

	// FindByDateRange returns entries within a time window, newest first
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockLogEntry, error)

	// CountByProduct counts a product's log entries
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
